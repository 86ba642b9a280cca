package statistic

import (
	"context"
	"errors"
	"scd/internal/models"
	"scd/internal/services"
	"scd/internal/testutil"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interceptorFixture struct {
	interceptor *Interceptor
	store       *testutil.MockCounterStore
	sampler     *testutil.MockLoadSampler
	metrics     *testutil.MockMetrics
	logger      *testutil.MockLogger
	send        models.SendFunc

	// last call seen by the wrapped primitive
	nextAPI    string
	nextParams *models.SendParams
	nextCalls  int
	nextErr    error
}

func newInterceptorFixture(t *testing.T) *interceptorFixture {
	t.Helper()
	conf := contractThresholds()
	conf.Interceptor.BanPrefixes = []string{"/restart", "/sudo"}

	f := &interceptorFixture{
		store:   testutil.NewMockCounterStore(),
		sampler: &testutil.MockLoadSampler{},
		metrics: testutil.NewMockMetrics(),
		logger:  &testutil.MockLogger{},
	}
	counters := services.NewCounterService(f.store, f.logger, f.metrics)
	f.interceptor = NewInterceptor(conf, counters, NewThresholdPolicy(conf), f.sampler, f.metrics, f.logger)
	f.send = f.interceptor.Wrap(func(_ context.Context, api string, params *models.SendParams) (json.RawMessage, error) {
		f.nextAPI = api
		f.nextParams = params
		f.nextCalls++
		if f.nextErr != nil {
			return nil, f.nextErr
		}
		return json.RawMessage(`{"status":"ok"}`), nil
	})
	return f
}

func (f *interceptorFixture) seedToday(group, private int, byChannel map[int64]int) string {
	date := models.DateKey(time.Now())
	f.store.Summaries[date] = [2]int{group, private}
	if byChannel != nil {
		f.store.ChannelTables[date] = byChannel
	}
	return date
}

func textParams(text string) *models.SendParams {
	return &models.SendParams{Message: models.Message{models.TextSegment(text)}}
}

func TestInterceptor_GroupCoarseNotice(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(99, 0, map[int64]int{7: 6})

	params := textParams("hello")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "hello\n📈 Sent 100 group messages today, 7 in this chat", params.Message.PlainText())
	assert.Equal(t, 1, f.metrics.Augmentations["quota"])
	assert.Equal(t, 1, f.metrics.Sends["group"])
}

func TestInterceptor_GroupDenseNotice(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(3024, 0, map[int64]int{7: 3})

	params := textParams("hi")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Contains(t, params.Message.PlainText(), "3025/3000")
}

func TestInterceptor_NoNoticeOffCadence(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(3012, 0, map[int64]int{7: 42})

	params := textParams("plain")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "plain", params.Message.PlainText())
	assert.Empty(t, f.metrics.Augmentations)

	// counted and detail-logged regardless
	assert.Equal(t, 1, f.metrics.Sends["group"])
	require.Len(t, f.store.Details, 1)
	assert.Equal(t, "plain", f.store.Details[0].Rendered)
}

func TestInterceptor_PrivateNotice(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(0, 19, nil)

	params := textParams("dm")
	params.UserID = 555
	_, err := f.send(context.Background(), "send_private_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "dm\n📈 Sent 20 private messages today", params.Message.PlainText())
}

func TestInterceptor_ForwardCountedButNeverAugmented(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(99, 0, map[int64]int{7: 9})

	params := textParams("fwd")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_forward_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "fwd", params.Message.PlainText())
	assert.Empty(t, f.metrics.Augmentations)
	assert.Equal(t, 1, f.metrics.Sends["group"])
	// forward sends also skip the load sampler
	assert.Zero(t, f.sampler.Samples)
	require.Len(t, f.store.Details, 1)
}

func TestInterceptor_PhraseRewrite(t *testing.T) {
	f := newInterceptorFixture(t)

	params := textParams("/restart now please")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "[blocked command trigger] /restart now please", params.Message.PlainText())
	assert.Equal(t, 1, f.metrics.Augmentations["phrase"])
	assert.True(t, f.logger.HasLevel("warn"))
}

func TestInterceptor_PhraseMidStringUntouched(t *testing.T) {
	f := newInterceptorFixture(t)

	params := textParams("please /restart later")
	params.GroupID = 7
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "please /restart later", params.Message.PlainText())
	assert.Zero(t, f.metrics.Augmentations["phrase"])
}

func TestInterceptor_LoadNotice(t *testing.T) {
	cases := []struct {
		name string
		pct  float64
		want string
	}{
		{"extreme", 95, "\n⚠️ Extreme load: 95.00% — responses may be slow"},
		{"high", 85, "\n⚠️ High load: 85.00%"},
		{"calm", 50, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInterceptorFixture(t)
			f.sampler.Pct = tc.pct

			params := textParams("msg")
			params.UserID = 1
			_, err := f.send(context.Background(), "send_private_msg", params)
			require.NoError(t, err)

			assert.Equal(t, "msg"+tc.want, params.Message.PlainText())
			assert.Equal(t, 1, f.sampler.Samples)
		})
	}
}

func TestInterceptor_GenericAPIDispatch(t *testing.T) {
	f := newInterceptorFixture(t)

	params := textParams("a")
	params.MessageType = "group"
	params.GroupID = 9
	_, err := f.send(context.Background(), "send_msg", params)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Sends["group"])

	params = textParams("b")
	params.MessageType = "private"
	params.UserID = 4
	_, err = f.send(context.Background(), "send_msg_async", params)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Sends["private"])

	params = textParams("c")
	_, err = f.send(context.Background(), "send_msg", params)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Sends["unknown"])
}

func TestInterceptor_GenericWithoutTargetLogsMinusOne(t *testing.T) {
	f := newInterceptorFixture(t)

	params := textParams("no target")
	params.MessageType = "group"
	_, err := f.send(context.Background(), "send_msg", params)
	require.NoError(t, err)

	require.Len(t, f.store.Details, 1)
	assert.Equal(t, int64(-1), f.store.Details[0].Target)
}

func TestInterceptor_NonSendAPIPassesThrough(t *testing.T) {
	f := newInterceptorFixture(t)

	params := textParams("/restart")
	resp, err := f.send(context.Background(), "get_status", params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp))

	// not counted, but the phrase rewrite still applies
	assert.Empty(t, f.metrics.Sends)
	assert.Empty(t, f.store.Details)
	assert.Equal(t, "[blocked command trigger] /restart", params.Message.PlainText())
}

func TestInterceptor_ForwardErrorPropagated(t *testing.T) {
	f := newInterceptorFixture(t)
	f.nextErr = errors.New("upstream down")

	params := textParams("x")
	params.GroupID = 1
	_, err := f.send(context.Background(), "send_group_msg", params)
	assert.ErrorIs(t, err, f.nextErr)

	// the send was still counted before the forward failed
	assert.Equal(t, 1, f.metrics.Sends["group"])
}

func TestInterceptor_NilParamsForwarded(t *testing.T) {
	f := newInterceptorFixture(t)

	_, err := f.send(context.Background(), "send_group_msg", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.nextCalls)
	assert.Empty(t, f.metrics.Sends)
}

func TestInterceptor_EmptyMessageCountedNotAugmented(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(99, 0, nil)

	params := &models.SendParams{Message: models.Message{}, GroupID: 7}
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Empty(t, params.Message)
	assert.Equal(t, 1, f.metrics.Sends["group"])
}

func TestInterceptor_NonRenderableTailSkipsNotice(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(99, 0, nil)

	params := &models.SendParams{
		Message: models.Message{
			models.TextSegment("voice:"),
			{Kind: "record", Data: map[string]any{"file": "v.amr"}},
		},
		GroupID: 7,
	}
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, "voice:[record]", params.Message.PlainText())
	assert.Zero(t, f.metrics.Augmentations["quota"])
}

func TestInterceptor_DetailIncludesNotice(t *testing.T) {
	f := newInterceptorFixture(t)
	f.seedToday(0, 19, nil)

	params := textParams("dm")
	params.UserID = 8
	_, err := f.send(context.Background(), "send_private_msg", params)
	require.NoError(t, err)

	require.Len(t, f.store.Details, 1)
	assert.Equal(t, "dm\n📈 Sent 20 private messages today", f.store.Details[0].Rendered)
	assert.Equal(t, int64(8), f.store.Details[0].Target)
}

type panickingCounters struct {
	services.CounterServiceInterface
}

func (panickingCounters) RecordSend(models.Category, int64, bool) models.SendTotals {
	panic("counter storage corrupted")
}

func TestInterceptor_PanicForwardsOriginal(t *testing.T) {
	f := newInterceptorFixture(t)
	f.interceptor.counters = panickingCounters{}

	params := textParams("original")
	_, err := f.send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.Equal(t, 1, f.nextCalls)
	assert.Equal(t, "original", params.Message.PlainText())
	assert.True(t, f.logger.HasLevel("error"))
}
