package statistic

import (
	"context"
	"scd/internal/models"
	"scd/internal/providers"
	"scd/internal/services"
	"scd/internal/structures"
	"strings"

	json "github.com/goccy/go-json"
)

const blockedPrefixNotice = "[blocked command trigger] "

// API name sets of the upstream bot protocol. Forwarded sends are the
// pre-composed multi-node aggregates; they are counted and logged but
// never augmented.
var (
	groupAPIs = map[string]struct{}{
		"send_group_msg":         {},
		"send_group_msg_async":   {},
		"send_group_forward_msg": {},
	}
	privateAPIs = map[string]struct{}{
		"send_private_msg":         {},
		"send_private_msg_async":   {},
		"send_private_forward_msg": {},
	}
	genericAPIs = map[string]struct{}{
		"send_msg":         {},
		"send_msg_async":   {},
		"send_forward_msg": {},
	}
	directMessageAPIs = map[string]struct{}{
		"send_group_msg":         {},
		"send_group_msg_async":   {},
		"send_private_msg":       {},
		"send_private_msg_async": {},
		"send_msg":               {},
		"send_msg_async":         {},
	}
)

// Interceptor is the single chokepoint wrapped around the real send
// primitive. Per call it rewrites banned trigger phrases, applies load
// and quota notices, counts the send and appends its detail line, then
// forwards. Observability never blocks delivery: any internal failure
// forwards the original call unmodified.
type Interceptor struct {
	conf     *structures.Config
	counters services.CounterServiceInterface
	policy   *ThresholdPolicy
	sampler  providers.LoadSamplerInterface
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
}

func NewInterceptor(conf *structures.Config, counters services.CounterServiceInterface, policy *ThresholdPolicy, sampler providers.LoadSamplerInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *Interceptor {
	return &Interceptor{
		conf:     conf,
		counters: counters,
		policy:   policy,
		sampler:  sampler,
		metrics:  metrics,
		logger:   logger,
	}
}

// Wrap decorates a send primitive. Composed once at startup; the
// returned SendFunc preserves the original's result and error verbatim.
func (i *Interceptor) Wrap(next models.SendFunc) models.SendFunc {
	return func(ctx context.Context, api string, params *models.SendParams) (json.RawMessage, error) {
		if params != nil {
			i.intercept(ctx, api, params)
		}
		return next(ctx, api, params)
	}
}

// intercept runs the counting/augmentation pipeline, committing its
// payload mutations only when the whole pipeline succeeded.
func (i *Interceptor) intercept(ctx context.Context, api string, params *models.SendParams) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Errorf(providers.TypeSend, "interceptor failure on %s, forwarding unmodified: %v", api, r)
		}
	}()

	i.logger.Debugf(providers.TypeSend, "intercepted %s (segments=%d)", api, len(params.Message))

	msg := params.Message

	// Phrase rewrite: the bot's own output must not start with one of
	// its trigger prefixes, or it can re-trigger itself or a
	// collaborating bot.
	msg = i.rewriteBannedPhrases(api, msg)

	// Load sampling happens before the counter critical section; the
	// sample is an I/O-bound await that must not be held under a lock.
	if _, direct := directMessageAPIs[api]; direct {
		pct, _ := i.sampler.Sample(ctx)
		if v := i.policy.EvaluateLoad(pct); v.Fire {
			msg = msg.WithAppendedText(v.Text)
			i.metrics.IncAugmentationsTotal("load")
		}
	}

	category, target, hasTarget, counted := classify(api, params)
	if !counted {
		params.Message = msg
		return
	}

	totals := i.counters.RecordSend(category, target, hasTarget)

	forwarded := strings.Contains(api, "forward")
	if !forwarded && msg.EndsRenderable() {
		var v Verdict
		switch category {
		case models.CategoryGroup:
			v = i.policy.EvaluateGroup(totals.Total, totals.Channel)
		case models.CategoryPrivate:
			v = i.policy.EvaluatePrivate(totals.Total)
		}
		if v.Fire {
			msg = msg.WithAppendedText(v.Text)
			i.metrics.IncAugmentationsTotal("quota")
		}
	}

	logTarget := target
	if !hasTarget {
		logTarget = -1
	}
	i.counters.LogDetail(category, logTarget, msg.PlainText())

	params.Message = msg
}

func (i *Interceptor) rewriteBannedPhrases(api string, msg models.Message) models.Message {
	for _, seg := range msg {
		if seg.Kind != models.SegmentText {
			continue
		}
		for _, prefix := range i.conf.Interceptor.BanPrefixes {
			if prefix != "" && strings.HasPrefix(seg.Text, prefix) {
				i.logger.Warnf(providers.TypeSend, "blocked self-trigger phrase in %s: %q", api, seg.Text)
				i.metrics.IncAugmentationsTotal("phrase")
				return msg.WithPrependedText(blockedPrefixNotice)
			}
		}
	}
	return msg
}

// NewSendPipeline composes the interceptor around the real upstream
// send primitive. This is the one place the decorator is applied.
func NewSendPipeline(i *Interceptor, upstream providers.UpstreamSenderInterface) models.SendFunc {
	return i.Wrap(upstream.Send)
}

// classify maps an API name to a counting category and target id.
// Generic sends carry their type in a separate field; anything else
// there is counted as unknown rather than dropped. Non-send APIs are
// not counted at all.
func classify(api string, params *models.SendParams) (category models.Category, target int64, hasTarget, counted bool) {
	if _, ok := groupAPIs[api]; ok {
		return models.CategoryGroup, params.GroupID, params.GroupID != 0, true
	}
	if _, ok := privateAPIs[api]; ok {
		return models.CategoryPrivate, params.UserID, params.UserID != 0, true
	}
	if _, ok := genericAPIs[api]; ok {
		switch params.MessageType {
		case "group":
			return models.CategoryGroup, params.GroupID, params.GroupID != 0, true
		case "private":
			return models.CategoryPrivate, params.UserID, params.UserID != 0, true
		default:
			return models.CategoryUnknown, params.UserID, params.UserID != 0, true
		}
	}
	return models.CategoryUnknown, 0, false, false
}
