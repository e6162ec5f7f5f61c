package run

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/John-Robertt/gpcheck/internal/domain"
	"github.com/John-Robertt/gpcheck/internal/lookup"
)

// fakeBackend 模拟远端：taken 中的 id 视为存在，errs 中的 id 返回指定错误，其余 NotFound。
type fakeBackend struct {
	taken map[string]bool
	errs  map[string]error
	calls []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) GetProject(_ context.Context, id string) error {
	f.calls = append(f.calls, id)
	if err, ok := f.errs[id]; ok {
		return err
	}
	if f.taken[id] {
		return nil
	}
	return status.Error(codes.NotFound, "not found")
}

func (f *fakeBackend) Close() error { return nil }

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

type recordObserver struct {
	startTotal int
	startCalls int
	items      []domain.ItemResult
	idx        []int
}

func (o *recordObserver) OnStart(total int) {
	o.startCalls++
	o.startTotal = total
}

func (o *recordObserver) OnItemDone(idx, total int, item domain.ItemResult, _ time.Duration) {
	o.idx = append(o.idx, idx)
	o.items = append(o.items, item)
}

func TestExecute_EndToEndClassification(t *testing.T) {
	b := &fakeBackend{taken: map[string]bool{"valid-name-1": true}}
	sr := &sleepRecorder{}
	obs := &recordObserver{}

	rr := ExecuteWithObserver(context.Background(), Options{
		Wordlist: "names.txt",
		Backend:  "fake",
		Delay:    200 * time.Millisecond,
		Sleep:    sr.sleep,
	}, []string{"ab", "valid-name-1", "ANOTHERNAME"}, lookup.NewChecker(b, nil), obs)

	require.Len(t, rr.Items, 3)
	assert.Equal(t, domain.StatusInvalid, rr.Items[0].Status)
	assert.Equal(t, "ab", rr.Items[0].Raw)
	assert.NotEmpty(t, rr.Items[0].ErrorMsg)

	assert.Equal(t, domain.StatusTaken, rr.Items[1].Status)
	assert.Equal(t, "valid-name-1", rr.Items[1].ID)

	assert.Equal(t, domain.StatusAvailable, rr.Items[2].Status)
	assert.Equal(t, "ANOTHERNAME", rr.Items[2].Raw)
	assert.Equal(t, "anothername", rr.Items[2].ID)
	assert.Equal(t, domain.LookupNotFound, rr.Items[2].Lookup)

	assert.Equal(t, domain.ReportSummary{Total: 3, Available: 1, Taken: 1, Invalid: 1}, rr.Summary)
	assert.Equal(t, []string{"anothername"}, rr.Available())
	assert.Equal(t, []string{"valid-name-1"}, rr.Taken())

	// invalid 不查询；查询使用小写形态。
	assert.Equal(t, []string{"valid-name-1", "anothername"}, b.calls)
	// 每次查询后都等待（包括最后一条），invalid 不等待。
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 200 * time.Millisecond}, sr.calls)

	assert.Equal(t, 1, obs.startCalls)
	assert.Equal(t, 3, obs.startTotal)
	assert.Equal(t, []int{1, 2, 3}, obs.idx)
	assert.Equal(t, "names.txt", rr.Wordlist)
	assert.Equal(t, "fake", rr.Backend)
}

func TestExecute_UnexpectedErrorCountsAsAvailable(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{
		"rate-limited": status.Error(codes.ResourceExhausted, "quota"),
		"hidden-one-1": status.Error(codes.PermissionDenied, "denied"),
	}}
	sr := &sleepRecorder{}

	rr := Execute(context.Background(), Options{Sleep: sr.sleep}, []string{"rate-limited", "hidden-one-1"}, lookup.NewChecker(b, nil))

	assert.Equal(t, []string{"rate-limited", "hidden-one-1"}, rr.Available())
	assert.Equal(t, domain.LookupUnexpected, rr.Items[0].Lookup)
	assert.Equal(t, domain.LookupPermissionDenied, rr.Items[1].Lookup)
	assert.Equal(t, 1, rr.Summary.Unconfirmed)
	assert.Contains(t, rr.Items[0].ErrorMsg, "quota")
	assert.Len(t, sr.calls, 2)
}

func TestExecute_AllInvalidNoLookupNoSleep(t *testing.T) {
	b := &fakeBackend{}
	sr := &sleepRecorder{}

	rr := Execute(context.Background(), Options{Delay: time.Second, Sleep: sr.sleep}, []string{"123456", "-my-app", "x"}, lookup.NewChecker(b, nil))

	assert.Empty(t, b.calls)
	assert.Empty(t, sr.calls)
	assert.Equal(t, domain.ReportSummary{Total: 3, Invalid: 3}, rr.Summary)
	assert.Empty(t, rr.Available())
}

func TestExecute_EmptyInput(t *testing.T) {
	obs := &recordObserver{}
	rr := ExecuteWithObserver(context.Background(), Options{}, nil, lookup.NewChecker(&fakeBackend{}, nil), obs)

	assert.Equal(t, domain.ReportSummary{}, rr.Summary)
	assert.Equal(t, 1, obs.startCalls)
	assert.Empty(t, obs.items)
}

func TestExecute_NilObserverSameResult(t *testing.T) {
	names := []string{"ab", "valid-name-1", "ANOTHERNAME"}
	opts := Options{Sleep: (&sleepRecorder{}).sleep}

	a := Execute(context.Background(), opts, names, lookup.NewChecker(&fakeBackend{taken: map[string]bool{"valid-name-1": true}}, nil))
	b := ExecuteWithObserver(context.Background(), opts, names, lookup.NewChecker(&fakeBackend{taken: map[string]bool{"valid-name-1": true}}, nil), nil)

	// 时间字段本身允许有微小差异；对比时归零。
	a.StartedAt, a.FinishedAt = time.Time{}, time.Time{}
	b.StartedAt, b.FinishedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
