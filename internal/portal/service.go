package portal

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontiertower/portal-backend/internal/metrics"
	"github.com/frontiertower/portal-backend/internal/notify"
	"github.com/frontiertower/portal-backend/internal/store"
	"github.com/frontiertower/portal-backend/internal/unifi"
)

const (
	successMessage = "Successfully connected to WiFi!"

	// softSuccessMessage is shown when the record was persisted but the
	// controller could not be driven. The person is known; the grant may
	// simply need a resubmit or an operator fix. See DESIGN.md for the
	// policy decision.
	softSuccessMessage = "Connected! If you experience issues, please contact support."
)

// Config carries the orchestration settings.
type Config struct {
	// DefaultRedirectURL is used when the submission carries no usable
	// destination.
	DefaultRedirectURL string
	// SessionMinutes is the access duration granted per authorization.
	// Zero means the 8-hour default.
	SessionMinutes int
}

// Service runs the end-to-end authorization workflow: validate the
// submission, persist the requester record, then drive one controller
// session to authorize the device.
type Service struct {
	cfg      Config
	records  store.RecordStore
	ctrl     unifi.Controller
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewService composes the workflow. A nil notifier disables notification;
// a nil logger logs nowhere.
func NewService(cfg Config, records store.RecordStore, ctrl unifi.Controller, notifier notify.Notifier, logger *zap.Logger) *Service {
	if cfg.SessionMinutes <= 0 {
		cfg.SessionMinutes = unifi.DefaultSessionMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		records:  records,
		ctrl:     ctrl,
		notifier: notifier,
		logger:   logger,
	}
}

// Authorize handles one submission. The requester record is committed
// before any controller I/O so a slow or dead controller never holds a
// database transaction open. Validation and storage failures are returned
// as typed errors with nothing authorized; controller failures after the
// commit degrade to a soft success (the record stays, the error is
// logged). Nothing is retried; the user may resubmit.
func (s *Service) Authorize(ctx context.Context, req AuthRequest) (Outcome, error) {
	requestID := uuid.New().String()
	role := string(req.Role)

	req, err := Validate(req)
	if err != nil {
		metrics.AuthorizationsTotal.WithLabelValues(role, "validation_failed").Inc()
		return Outcome{}, err
	}

	mac, err := NormalizeMAC(req.MAC)
	if err != nil {
		metrics.AuthorizationsTotal.WithLabelValues(role, "validation_failed").Inc()
		return Outcome{}, err
	}
	req.MAC = mac

	recordID, err := s.persist(ctx, req)
	if err != nil {
		metrics.AuthorizationsTotal.WithLabelValues(string(req.Role), "storage_failed").Inc()
		return Outcome{}, err
	}

	redirect := s.redirectTarget(req.RedirectURL)

	if err := s.authorizeDevice(ctx, mac); err != nil {
		// The record stays: the person is known even though the grant
		// failed. Exactly one error log entry for operational diagnosis.
		s.logger.Error("controller authorization failed",
			zap.String("request_id", requestID),
			zap.String("mac", mac),
			zap.String("role", string(req.Role)),
			zap.Error(err),
		)
		metrics.AuthorizationsTotal.WithLabelValues(string(req.Role), "soft_success").Inc()
		metrics.ControllerErrorsTotal.WithLabelValues(controllerErrorKind(err)).Inc()
		return Outcome{
			Success:     true,
			Message:     softSuccessMessage,
			RedirectURL: redirect,
		}, nil
	}

	s.logger.Info("device authorized",
		zap.String("request_id", requestID),
		zap.String("mac", mac),
		zap.String("role", string(req.Role)),
		zap.String("email", req.Email),
		zap.Int("minutes", s.cfg.SessionMinutes),
	)
	metrics.AuthorizationsTotal.WithLabelValues(string(req.Role), "success").Inc()

	s.sendNotification(ctx, requestID, req, recordID)

	return Outcome{
		Success:     true,
		Message:     successMessage,
		RedirectURL: redirect,
	}, nil
}

// persist writes exactly one requester record; the variant is fully
// determined by the role.
func (s *Service) persist(ctx context.Context, req AuthRequest) (int64, error) {
	var (
		id  int64
		err error
		op  string
	)
	switch req.Role {
	case RoleMember:
		op = "upsert member"
		id, err = s.records.UpsertMember(ctx, req.Email, req.Name, req.FloorID, req.MAC)
	case RoleGuest:
		op = "insert guest"
		id, err = s.records.InsertGuest(ctx, req.Name, req.Email, req.MAC)
	case RoleEvent:
		op = "insert event attendee"
		id, err = s.records.InsertEventAttendee(ctx, req.EventID, req.Name, req.Email, req.MAC)
	}
	if err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}
	return id, nil
}

// authorizeDevice runs one controller session. Close runs on every exit
// path, exactly once, so the controller-side cookie is always released.
func (s *Service) authorizeDevice(ctx context.Context, mac string) error {
	sess := s.ctrl.NewSession()
	defer sess.Close(ctx)

	if err := sess.Authenticate(ctx); err != nil {
		return err
	}
	return sess.AuthorizeDevice(ctx, mac, s.cfg.SessionMinutes)
}

// redirectTarget returns the submitted destination when it is a
// well-formed absolute http(s) URL, else the configured default.
func (s *Service) redirectTarget(submitted string) string {
	if submitted != "" {
		u, err := url.Parse(submitted)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return submitted
		}
	}
	return s.cfg.DefaultRedirectURL
}

func (s *Service) sendNotification(ctx context.Context, requestID string, req AuthRequest, recordID int64) {
	if s.notifier == nil {
		return
	}
	ev := notify.Event{
		RequestID:       requestID,
		Role:            string(req.Role),
		Email:           req.Email,
		Name:            req.Name,
		MAC:             req.MAC,
		FloorID:         req.FloorID,
		EventID:         req.EventID,
		RecordID:        recordID,
		DurationMinutes: s.cfg.SessionMinutes,
		AuthorizedAt:    time.Now().UTC(),
	}
	if err := s.notifier.AuthorizationGranted(ctx, ev); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func controllerErrorKind(err error) string {
	switch err.(type) {
	case *unifi.AuthError:
		return "auth"
	case *unifi.CommandError:
		return "command"
	case *unifi.UnreachableError:
		return "unreachable"
	}
	return "other"
}
