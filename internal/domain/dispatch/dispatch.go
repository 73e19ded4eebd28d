// Package dispatch routes an authenticated request envelope to its method
// handler and turns every outcome into a model.Result.
package dispatch

import (
	"context"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/okian/scoring/internal/domain/auth"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/internal/domain/schema"
	"github.com/okian/scoring/internal/domain/scoring"
	"github.com/okian/scoring/pkg/logger"
	"github.com/okian/scoring/pkg/metrics"
)

// Method names.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// AdminScore is returned to the admin instead of a computed score.
const AdminScore = 42

// InterestsStore reads interest records from the durable store.
type InterestsStore interface {
	Get(ctx context.Context, id string) (interests []string, found bool, err error)
}

type handlerFunc func(ctx context.Context, env model.Envelope, rc *model.Context) model.Result

// Dispatcher validates, authenticates and routes requests.
type Dispatcher struct {
	checker *auth.Checker
	scorer  scoring.Scorer
	store   InterestsStore
	log     logger.Logger
	now     func() time.Time
	strict  bool
	methods map[string]handlerFunc
}

// New creates a dispatcher.
func New(checker *auth.Checker, scorer scoring.Scorer, store InterestsStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		checker: checker,
		scorer:  scorer,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.methods = map[string]handlerFunc{
		MethodOnlineScore:      d.onlineScore,
		MethodClientsInterests: d.clientsInterests,
	}
	return d
}

// Methods returns the routable method names.
func (d *Dispatcher) Methods() []string {
	return []string{MethodOnlineScore, MethodClientsInterests}
}

// Handle runs one request through validation, authentication and its method
// handler. rc collects facts for the access log. A panic in a handler becomes
// a 500 result.
func (d *Dispatcher) Handle(ctx context.Context, body *model.Object, rc *model.Context) (res model.Result) {
	if rc == nil {
		rc = &model.Context{}
	}
	method := "unknown"
	defer func() {
		if p := recover(); p != nil {
			d.logError(ctx, "handler panic",
				logger.String("method", method),
				logger.Any("panic", p),
				logger.String("stack", string(debug.Stack())),
			)
			metrics.RecordErrorByComponent("dispatch", "panic")
			res = model.Fail(model.StatusInternalError, "")
		}
		metrics.RecordDispatch(method, strconv.Itoa(int(res.Code)))
	}()

	report := schema.Envelope.Validate(body, d.now())
	if !report.Valid() {
		metrics.RecordValidationFailure(schema.Envelope.Name())
		return model.Fail(model.StatusInvalidRequest, report.Message())
	}
	env := model.EnvelopeFrom(body)

	if !d.checker.Authenticate(env) {
		caller := "user"
		if d.checker.IsAdmin(env.Login) {
			caller = "admin"
		}
		metrics.RecordAuthFailure(caller)
		return model.Fail(model.StatusForbidden, "")
	}

	h, ok := d.methods[env.Method]
	if !ok {
		return model.Fail(model.StatusNotFound, "")
	}
	method = env.Method
	return h(ctx, env, rc)
}

func (d *Dispatcher) onlineScore(ctx context.Context, env model.Envelope, rc *model.Context) model.Result {
	report := schema.OnlineScore.Validate(env.Arguments, d.now())
	if !report.Valid() {
		metrics.RecordValidationFailure(schema.OnlineScore.Name())
		return model.Fail(model.StatusInvalidRequest, report.Message())
	}
	rc.Has = report.Supplied

	if d.checker.IsAdmin(env.Login) {
		return model.OK(model.ScoreResponse{Score: AdminScore})
	}
	score := d.scorer.Score(ctx, scoreInput(env.Arguments))
	return model.OK(model.ScoreResponse{Score: score})
}

func (d *Dispatcher) clientsInterests(ctx context.Context, env model.Envelope, rc *model.Context) model.Result {
	report := schema.ClientsInterests.Validate(env.Arguments, d.now())
	if !report.Valid() {
		metrics.RecordValidationFailure(schema.ClientsInterests.Name())
		return model.Fail(model.StatusInvalidRequest, report.Message())
	}
	ids := clientIDs(env.Arguments)
	rc.NClients = len(ids)

	result := model.NewObject()
	anyFound := false
	for _, id := range ids {
		key := strconv.FormatInt(id, 10)
		interests, found, err := d.store.Get(ctx, key)
		if err != nil {
			d.logError(ctx, "interests lookup failed", logger.String("client_id", key), logger.Error(err))
			metrics.RecordErrorByComponent("store", "unavailable")
			return model.Fail(model.StatusInternalError, "")
		}
		if !found || interests == nil {
			interests = []string{}
		}
		if len(interests) > 0 {
			metrics.RecordInterestsLookup("found")
			anyFound = true
		} else {
			metrics.RecordInterestsLookup("missing")
		}
		result.Set(key, interests)
	}

	if d.strict && !anyFound {
		return model.Fail(model.StatusNotFound, "Not Found any of client ids")
	}
	return model.OK(result)
}

func (d *Dispatcher) logError(ctx context.Context, msg string, fields ...logger.Field) {
	if d.log != nil {
		d.log.Error(ctx, msg, fields...)
	}
}
