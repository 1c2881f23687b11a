package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeList mimics the Redis list commands on a slice.
type fakeList struct {
	items   []string
	pushErr error
}

func (f *fakeList) RPush(_ context.Context, _ string, values ...interface{}) *redis.IntCmd {
	if f.pushErr != nil {
		return redis.NewIntResult(0, f.pushErr)
	}
	for _, v := range values {
		switch s := v.(type) {
		case []byte:
			f.items = append(f.items, string(s))
		case string:
			f.items = append(f.items, s)
		}
	}
	return redis.NewIntResult(int64(len(f.items)), nil)
}

func (f *fakeList) LTrim(_ context.Context, _ string, start, stop int64) *redis.StatusCmd {
	lo, hi := f.bounds(start, stop)
	f.items = append([]string{}, f.items[lo:hi]...)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeList) LRange(_ context.Context, _ string, start, stop int64) *redis.StringSliceCmd {
	lo, hi := f.bounds(start, stop)
	return redis.NewStringSliceResult(append([]string{}, f.items[lo:hi]...), nil)
}

func (f *fakeList) bounds(start, stop int64) (int, int) {
	n := int64(len(f.items))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return 0, 0
	}
	return int(start), int(stop) + 1
}

func entry(action Action, id int) Entry {
	return Entry{Action: action, ProductID: id, ProductName: "p", Actor: "tester", Time: time.Unix(int64(id), 0).UTC()}
}

func TestRedisLog_RecentNewestFirst(t *testing.T) {
	l := NewRedisLog(&fakeList{}, "", 0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, l.Record(ctx, entry(ActionCreated, i)))
	}

	got, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ProductID)
	assert.Equal(t, 2, got[1].ProductID)
	assert.Equal(t, ActionCreated, got[0].Action)
}

func TestRedisLog_Capped(t *testing.T) {
	list := &fakeList{}
	l := NewRedisLog(list, "k", 2)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, l.Record(ctx, entry(ActionUpdated, i)))
	}

	assert.Len(t, list.items, 2)
	got, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].ProductID)
	assert.Equal(t, 4, got[1].ProductID)
}

func TestRedisLog_PushError(t *testing.T) {
	l := NewRedisLog(&fakeList{pushErr: errors.New("down")}, "k", 10)

	err := l.Record(context.Background(), entry(ActionDeleted, 1))
	assert.Error(t, err)
}

func TestRedisLog_ZeroLimit(t *testing.T) {
	l := NewRedisLog(&fakeList{}, "k", 10)

	got, err := l.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryLog(t *testing.T) {
	l := NewMemoryLog(3)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, l.Record(ctx, entry(ActionImageReplaced, i)))
	}

	got, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{4, 3, 2}, []int{got[0].ProductID, got[1].ProductID, got[2].ProductID})

	l.Clear()
	got, err = l.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisLog_RecentLogsUndecodableEntries(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	list := &fakeList{}
	l := NewRedisLog(list, "", 0)
	ctx := context.Background()
	require.NoError(t, l.Record(ctx, entry(ActionCreated, 1)))
	list.items = append(list.items, "{not json")
	require.NoError(t, l.Record(ctx, entry(ActionUpdated, 1)))

	got, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ActionUpdated, got[0].Action)
	assert.Equal(t, ActionCreated, got[1].Action)

	warnings := logs.FilterMessage("skipping undecodable activity entry").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, DefaultKey, warnings[0].ContextMap()["key"])
}
