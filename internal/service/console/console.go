package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/pkg/clients/inventory"
)

// ErrClosed is returned once the console has been shut down.
var ErrClosed = errors.New("console closed")

// ErrExportDisabled indicates no exporter was configured.
var ErrExportDisabled = errors.New("export disabled")

// Gateway issues one backend request per call.
type Gateway interface {
	Do(ctx context.Context, req models.Request) (*inventory.Response, error)
}

// Journal records completed operations.
type Journal interface {
	SaveOperation(ctx context.Context, entry models.OperationLog) error
}

// Exporter writes a rendered table somewhere outside the console.
type Exporter interface {
	WriteTable(ctx context.Context, values [][]string) error
}

// Options tunes a console instance.
type Options struct {
	EscapeQuery bool
	Journal     Journal
	Exporter    Exporter
}

// Snapshot is a consistent copy of the console state.
type Snapshot struct {
	Form    models.FormFields        `json:"form"`
	Message string                   `json:"message"`
	Results []models.InventoryRecord `json:"results"`
	Table   Table                    `json:"table"`
}

// Service owns the console state on a single goroutine. Gateway calls run elsewhere and post
// their continuation back, so completions apply in arrival order.
type Service struct {
	gateway     Gateway
	journal     Journal
	exporter    Exporter
	escapeQuery bool
	logger      *zap.Logger
	now         func() time.Time

	state State

	events    chan func()
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewService starts the owner goroutine immediately.
func NewService(gateway Gateway, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		gateway:     gateway,
		journal:     opts.Journal,
		exporter:    opts.Exporter,
		escapeQuery: opts.EscapeQuery,
		logger:      logger,
		now:         time.Now,
		events:      make(chan func()),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go svc.loop()
	return svc
}

func (s *Service) loop() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.quit:
			return
		}
	}
}

// run executes fn on the owner goroutine and waits for it.
func (s *Service) run(fn func()) error {
	done := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(done) }:
	case <-s.quit:
		return ErrClosed
	}
	<-done
	return nil
}

// Close stops the owner goroutine. Calls still in flight resolve with ErrClosed.
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.stopped
}

// Call is the pending completion of one dispatched operation.
type Call struct {
	Operation models.Operation

	done    chan struct{}
	outcome Outcome
}

func newCall(op models.Operation) *Call {
	return &Call{Operation: op, done: make(chan struct{})}
}

func (c *Call) resolve(outcome Outcome) {
	c.outcome = outcome
	close(c.done)
}

// Done is closed once the outcome has been applied to the console.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes or ctx ends. Giving up waiting does not cancel the call.
func (c *Call) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-c.done:
		return c.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Dispatch clears the flash slot, builds the request from the current form and sends it in
// the background. The returned Call resolves after the response has been reconciled.
func (s *Service) Dispatch(ctx context.Context, op models.Operation) (*Call, error) {
	if !op.IsRemote() {
		return nil, models.ErrUnsupportedOperation
	}

	var (
		req      models.Request
		recordID string
		buildErr error
	)
	if err := s.run(func() {
		s.state.Notifier.Clear()
		fields := s.state.Form.Fields()
		recordID = fields.ID
		req, buildErr = models.BuildRequest(op, fields, s.escapeQuery)
	}); err != nil {
		return nil, err
	}
	if buildErr != nil {
		return nil, fmt.Errorf("build %s request: %w", op, buildErr)
	}

	s.logger.Info("dispatching operation",
		zap.String("operation", string(op)),
		zap.String("method", req.Method),
		zap.String("url", req.URL()))

	call := newCall(op)
	go s.execute(context.WithoutCancel(ctx), call, req, recordID)
	return call, nil
}

func (s *Service) execute(ctx context.Context, call *Call, req models.Request, recordID string) {
	started := s.now()
	resp, err := s.gateway.Do(ctx, req)
	outcome := Outcome{Operation: req.Operation, Response: resp, Err: err}

	var message string
	if runErr := s.run(func() {
		Reconcile(&s.state, outcome)
		message = s.state.Notifier.Message()
	}); runErr != nil {
		outcome.Err = runErr
	}
	call.resolve(outcome)

	if outcome.Succeeded() {
		s.logger.Info("operation succeeded", zap.String("operation", string(req.Operation)))
	} else {
		s.logger.Warn("operation failed", zap.String("operation", string(req.Operation)), zap.Error(outcome.Err))
	}

	s.journalOutcome(ctx, outcome, recordID, message, started)
}

func (s *Service) journalOutcome(ctx context.Context, outcome Outcome, recordID, message string, started time.Time) {
	if s.journal == nil {
		return
	}

	entry := models.OperationLog{
		Operation:   outcome.Operation,
		RecordID:    recordID,
		Success:     outcome.Succeeded(),
		Message:     message,
		StartedAt:   started.UTC(),
		CompletedAt: s.now().UTC(),
	}
	if outcome.Response != nil {
		entry.StatusCode = outcome.Response.StatusCode
		if outcome.Response.Record != nil && outcome.Response.Record.ID != "" {
			entry.RecordID = string(outcome.Response.Record.ID)
		}
	}
	if apiErr, ok := inventory.AsAPIError(outcome.Err); ok {
		entry.StatusCode = apiErr.StatusCode
	}

	if err := s.journal.SaveOperation(ctx, entry); err != nil {
		s.logger.Warn("failed to journal operation", zap.String("operation", string(outcome.Operation)), zap.Error(err))
	}
}

// Perform runs any operator action to completion: local actions directly, remote ones by
// dispatching and waiting for the outcome.
func (s *Service) Perform(ctx context.Context, op models.Operation) error {
	switch op {
	case models.OperationClear:
		return s.Clear()
	case models.OperationExport:
		_, err := s.Export(ctx)
		return err
	}

	call, err := s.Dispatch(ctx, op)
	if err != nil {
		return err
	}
	_, err = call.Wait(ctx)
	return err
}

// SetForm stores the field text the operator typed.
func (s *Service) SetForm(fields models.FormFields) error {
	return s.run(func() { s.state.Form.Set(fields) })
}

// Clear empties every field, the identifier included, and the flash slot.
func (s *Service) Clear() error {
	return s.run(func() {
		s.state.Form.Reset()
		s.state.Notifier.Clear()
	})
}

// Snapshot copies the current state.
func (s *Service) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.run(func() {
		snap = Snapshot{
			Form:    s.state.Form.Fields(),
			Message: s.state.Notifier.Message(),
			Results: append([]models.InventoryRecord(nil), s.state.Results...),
			Table:   ProjectTable(s.state.Results),
		}
	})
	return snap, err
}

// Export writes the current result table through the exporter and reports the outcome in the
// flash slot.
func (s *Service) Export(ctx context.Context) (int, error) {
	var table Table
	if err := s.run(func() {
		s.state.Notifier.Clear()
		table = ProjectTable(s.state.Results)
	}); err != nil {
		return 0, err
	}

	if s.exporter == nil {
		_ = s.run(func() { s.state.Notifier.Show(MessageExportOff) })
		return 0, ErrExportDisabled
	}

	if err := s.exporter.WriteTable(ctx, table.Values()); err != nil {
		s.logger.Error("failed to export results", zap.Error(err))
		_ = s.run(func() { s.state.Notifier.Show(err.Error()) })
		return 0, fmt.Errorf("export results: %w", err)
	}

	rows := len(table.Rows)
	_ = s.run(func() { s.state.Notifier.Show(fmt.Sprintf(messageExportedFmt, rows)) })
	s.logger.Info("results exported", zap.Int("rows", rows))
	return rows, nil
}
