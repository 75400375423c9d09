package browser

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const challengeHTML = `<html><div id="sec-if-cpt-container"></div></html>`

var realHTML = "<html>" + strings.Repeat("listing ", 200) + "</html>"

func TestAwaitResolution_ResolvesAfterPolls(t *testing.T) {
	t.Parallel()

	var calls int
	getContent := func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return challengeHTML, nil
		}
		return realHTML, nil
	}

	html, err := awaitResolution(context.Background(), time.Second, 10*time.Millisecond, 1000, getContent)
	require.NoError(t, err)
	require.Equal(t, realHTML, html)
	require.Equal(t, 3, calls)
}

func TestAwaitResolution_DeadlineReturnsLastContent(t *testing.T) {
	t.Parallel()

	getContent := func(context.Context) (string, error) {
		return challengeHTML, nil
	}

	html, err := awaitResolution(context.Background(), 50*time.Millisecond, 10*time.Millisecond, 1000, getContent)
	require.NoError(t, err)
	require.Equal(t, challengeHTML, html)
}

func TestAwaitResolution_FinalGrabWhenNoPollRan(t *testing.T) {
	t.Parallel()

	var calls int
	getContent := func(context.Context) (string, error) {
		calls++
		return realHTML, nil
	}

	// Zero wait budget: the loop body never runs, but content is still
	// captured once before returning.
	html, err := awaitResolution(context.Background(), 0, 10*time.Millisecond, 1000, getContent)
	require.NoError(t, err)
	require.Equal(t, realHTML, html)
	require.Equal(t, 1, calls)
}

func TestAwaitResolution_PollErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("tab crashed")
	getContent := func(context.Context) (string, error) {
		return "", wantErr
	}

	_, err := awaitResolution(context.Background(), time.Second, 10*time.Millisecond, 1000, getContent)
	require.ErrorIs(t, err, wantErr)
}

func TestAwaitResolution_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	getContent := func(context.Context) (string, error) {
		return challengeHTML, nil
	}
	_, err := awaitResolution(ctx, time.Second, 10*time.Millisecond, 1000, getContent)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAwaitResolution_SmallNonChallengeKeepsWaiting(t *testing.T) {
	t.Parallel()

	// A tiny page without markers is not accepted until the size floor
	// clears; at the deadline the last capture is returned as-is.
	getContent := func(context.Context) (string, error) {
		return "<html>loading</html>", nil
	}
	html, err := awaitResolution(context.Background(), 40*time.Millisecond, 10*time.Millisecond, 1000, getContent)
	require.NoError(t, err)
	require.Equal(t, "<html>loading</html>", html)
}

func TestEscalationError_Message(t *testing.T) {
	t.Parallel()

	err := &EscalationError{URL: "https://www.loopnet.com/Listing/1/", Reason: "challenge page persisted after browser fetch"}
	require.Contains(t, err.Error(), "https://www.loopnet.com/Listing/1/")
	require.Contains(t, err.Error(), "challenge page persisted")

	wrapped := &EscalationError{URL: "u", Reason: "browser navigation failed", Err: errors.New("exec: chrome not found")}
	require.Contains(t, wrapped.Error(), "chrome not found")
	require.ErrorContains(t, wrapped.Unwrap(), "chrome not found")
}

func TestFetcher_CloseIdempotent(t *testing.T) {
	t.Parallel()

	f := New(Config{Headless: true}, zap.NewNop())
	f.Close()
	f.Close()
}

func TestFetcher_Defaults(t *testing.T) {
	t.Parallel()

	f := New(Config{}, nil)
	require.Equal(t, 30*time.Second, f.cfg.NavTimeout)
	require.Equal(t, 5*time.Second, f.cfg.ChallengeWait)
	require.Equal(t, time.Second, f.cfg.PollInterval)
	require.Equal(t, 1000, f.cfg.MinContentLen)
}

func TestFetcher_EnsureSessionSingle(t *testing.T) {
	t.Parallel()

	f := New(Config{Headless: true}, zap.NewNop())
	defer f.Close()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ctxs = map[context.Context]struct{}{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := f.ensureSession()
			mu.Lock()
			ctxs[ctx] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, ctxs, 1, "concurrent first use must create exactly one session")
}
