package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
	"github.com/angelmondragon/flipradar-backend/pkg/metrics"
)

// auditWriteTimeout bounds the best-effort bid session audit write.
const auditWriteTimeout = 3 * time.Second

// BidResult is one bid attempt's outcome. The terminal result of a session is
// the last one in the attempt list.
type BidResult struct {
	VehicleID string    `json:"vehicle_id"`
	FinalBid  float64   `json:"final_bid"`
	Won       bool      `json:"won"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionOutcome is the full record of one auto-bid run.
type SessionOutcome struct {
	VehicleID string             `json:"vehicle_id"`
	Strategy  Strategy           `json:"strategy"`
	State     enums.BidState     `json:"state"`
	Attempts  []BidResult        `json:"attempts"`
	Final     BidResult          `json:"final"`
	Session   *models.BidSession `json:"session,omitempty"`
}

// Service drives auto-bid sessions against the auction gateway.
type Service interface {
	RunAutoBid(ctx context.Context, vehicle arbitrage.Vehicle, analysis arbitrage.Analysis) (*SessionOutcome, error)
	ListSessions(ctx context.Context, vehicleID string) ([]models.BidSession, error)
}

type ServiceParams struct {
	Gateway  Gateway
	Sessions SessionRepository
	Config   config.BiddingConfig
	Metrics  *metrics.EngineMetrics
	Log      *logger.Logger
	Now      func() time.Time
}

type service struct {
	gateway  Gateway
	sessions SessionRepository
	cfg      config.BiddingConfig
	metrics  *metrics.EngineMetrics
	log      *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bidding service requires an auction gateway")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bidding service requires a logger")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Config.MaxCycles <= 0 {
		params.Config.MaxCycles = 10
	}
	return &service{
		gateway:  params.Gateway,
		sessions: params.Sessions,
		cfg:      params.Config,
		metrics:  params.Metrics,
		log:      params.Log,
		now:      params.Now,
	}, nil
}

// RunAutoBid executes one bounded bidding session. The session always ends in
// a terminal state and always returns an outcome object; gateway failures
// surface as Lost or Error results, never as a bare error to the caller.
func (s *service) RunAutoBid(ctx context.Context, vehicle arbitrage.Vehicle, analysis arbitrage.Analysis) (*SessionOutcome, error) {
	if vehicle.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}

	ctx = s.log.WithVehicleID(ctx, vehicle.ID)
	strategy := DeriveStrategy(vehicle, analysis)

	outcome := &SessionOutcome{
		VehicleID: vehicle.ID,
		Strategy:  strategy,
		State:     enums.BidStateIdle,
	}

	if !strategy.AutoBidEnabled {
		s.finish(ctx, outcome, enums.BidStateDisabled, BidResult{
			VehicleID: vehicle.ID,
			Message:   fmt.Sprintf("auto-bid disabled: score %.1f below threshold", analysis.ArbitrageScore),
			Timestamp: s.now(),
		})
		return outcome, nil
	}

	currentHigh, err := s.currentHighBid(ctx, vehicle.ID)
	if err != nil {
		s.finish(ctx, outcome, enums.BidStateError, BidResult{
			VehicleID: vehicle.ID,
			Message:   "auction gateway unreachable: " + err.Error(),
			Timestamp: s.now(),
		})
		return outcome, nil
	}

	if currentHigh >= strategy.MaxBid {
		s.finish(ctx, outcome, enums.BidStateError, BidResult{
			VehicleID: vehicle.ID,
			FinalBid:  currentHigh,
			Message:   fmt.Sprintf("current high bid %.0f already at or above ceiling %.0f", currentHigh, strategy.MaxBid),
			Timestamp: s.now(),
		})
		return outcome, nil
	}

	for cycle := 0; cycle < s.cfg.MaxCycles; cycle++ {
		outcome.State = enums.BidStateBidding

		ourBid := currentHigh + strategy.IncrementAmount
		if ourBid > strategy.MaxBid {
			ourBid = strategy.MaxBid
		}

		bidOutcome, err := s.submitBid(ctx, vehicle.ID, ourBid)
		if err != nil {
			attempt := BidResult{
				VehicleID: vehicle.ID,
				FinalBid:  ourBid,
				Message:   "bid submission failed: " + err.Error(),
				Timestamp: s.now(),
			}
			outcome.Attempts = append(outcome.Attempts, attempt)
			s.finish(ctx, outcome, enums.BidStateLost, attempt)
			return outcome, nil
		}

		s.metrics.IncBidSubmitted(string(strategy.Kind))
		attempt := BidResult{
			VehicleID: vehicle.ID,
			FinalBid:  ourBid,
			Won:       bidOutcome.Winning,
			Success:   bidOutcome.Accepted,
			Message:   bidOutcome.Message,
			Timestamp: s.now(),
		}
		outcome.Attempts = append(outcome.Attempts, attempt)

		if bidOutcome.Winning {
			s.metrics.IncAuctionWon()
			s.finish(ctx, outcome, enums.BidStateWon, attempt)
			return outcome, nil
		}

		currentHigh = bidOutcome.NewHighBid
		if currentHigh >= strategy.MaxBid {
			final := attempt
			final.Message = fmt.Sprintf("outbid past ceiling %.0f", strategy.MaxBid)
			s.finish(ctx, outcome, enums.BidStateLost, final)
			return outcome, nil
		}

		if s.cfg.CycleDelay > 0 {
			select {
			case <-ctx.Done():
				final := attempt
				final.Message = "session canceled: " + ctx.Err().Error()
				s.finish(ctx, outcome, enums.BidStateLost, final)
				return outcome, nil
			case <-time.After(s.cfg.CycleDelay):
			}
		}
	}

	final := BidResult{
		VehicleID: vehicle.ID,
		FinalBid:  lastBid(outcome.Attempts),
		Message:   fmt.Sprintf("bid cycle budget of %d exhausted", s.cfg.MaxCycles),
		Timestamp: s.now(),
	}
	s.finish(ctx, outcome, enums.BidStateLost, final)
	return outcome, nil
}

func (s *service) ListSessions(ctx context.Context, vehicleID string) ([]models.BidSession, error) {
	if s.sessions == nil {
		return []models.BidSession{}, nil
	}
	return s.sessions.ListByVehicle(ctx, vehicleID)
}

func (s *service) currentHighBid(ctx context.Context, vehicleID string) (float64, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.gateway.CurrentHighBid(callCtx, vehicleID)
}

func (s *service) submitBid(ctx context.Context, vehicleID string, amount float64) (BidOutcome, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	bidOutcome, err := s.gateway.SubmitBid(callCtx, vehicleID, amount)
	if errors.Is(err, context.DeadlineExceeded) {
		return BidOutcome{}, fmt.Errorf("auction call timed out after %s", s.cfg.CallTimeout)
	}
	return bidOutcome, err
}

func (s *service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.CallTimeout)
}

// finish seals the outcome in a terminal state and records the audit row.
func (s *service) finish(ctx context.Context, outcome *SessionOutcome, state enums.BidState, final BidResult) {
	outcome.State = state
	final.Won = state == enums.BidStateWon
	outcome.Final = final

	session := &models.BidSession{
		VehicleID: outcome.VehicleID,
		Strategy:  outcome.Strategy.Kind,
		MaxBid:    outcome.Strategy.MaxBid,
		StopLoss:  outcome.Strategy.StopLoss,
		FinalBid:  final.FinalBid,
		Won:       final.Won,
		State:     state,
		Message:   final.Message,
	}
	for _, attempt := range outcome.Attempts {
		session.AttemptLog = append(session.AttemptLog,
			fmt.Sprintf("%.0f: %s", attempt.FinalBid, attempt.Message))
	}

	if s.sessions != nil {
		// the caller's ctx may already be canceled on the way out of the loop;
		// the audit write gets its own short deadline
		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
		defer cancel()
		if err := s.sessions.Create(auditCtx, session); err != nil {
			// the outcome is still returned; losing the audit row is logged only
			s.log.Error(ctx, "persisting bid session failed", err)
		}
	}
	outcome.Session = session

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"state":     state,
		"final_bid": final.FinalBid,
		"attempts":  len(outcome.Attempts),
	}), "auto-bid session finished")
}

func lastBid(attempts []BidResult) float64 {
	if len(attempts) == 0 {
		return 0
	}
	return attempts[len(attempts)-1].FinalBid
}
