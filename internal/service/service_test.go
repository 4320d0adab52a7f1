package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/quizplayer/backend/internal/catalog"
	"github.com/quizplayer/backend/internal/domain/level"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/service"
)

var errNoFile = errors.New("no such file")

// fakeSource serves quiz text from a map. Browsing the folder named by
// block waits until release is closed.
type fakeSource struct {
	files   map[string]string
	block   string
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSource) Fetch(_ context.Context, p string) (string, error) {
	raw, ok := f.files[p]
	if !ok {
		return "", errNoFile
	}
	return raw, nil
}

func (f *fakeSource) Browse(_ context.Context, folder string) (catalog.View, error) {
	if folder == f.block {
		close(f.entered)
		<-f.release
	}
	return catalog.View{Folder: folder}, nil
}

func newService(src *fakeSource) *service.PlayerService {
	return service.NewPlayerService(src, practicesession.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func quizFiles() map[string]string {
	return map[string]string{
		"a/One.txt": "Q1 (Level 1)\n@@A\nB\n\nQ2 (Level 2)\nC\n@@D",
		"b/Two.txt": "Q3 (Level 1)\n@@E\nF",
		"blank.txt": "\n\n",
	}
}

func TestNavigator_OnlyLatestCommits(t *testing.T) {
	var n service.Navigator

	first := n.Begin()
	second := n.Begin()

	if err := n.Commit(second, "newer", nil); err != nil {
		t.Fatalf("latest commit failed: %v", err)
	}
	applied := false
	if err := n.Commit(first, "older", func() { applied = true }); !errors.Is(err, service.ErrStaleNavigation) {
		t.Fatalf("expected ErrStaleNavigation, got %v", err)
	}
	if applied {
		t.Error("stale commit ran its apply func")
	}
	if n.Folder() != "newer" {
		t.Errorf("expected folder newer, got %q", n.Folder())
	}
	if n.Latest() != second {
		t.Errorf("expected latest %d, got %d", second, n.Latest())
	}
}

func TestPlayerService_Registry(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})

	p := ps.Create()
	got, err := ps.Get(p.ID)
	if err != nil || got != p {
		t.Fatalf("expected to find player, got %v %v", got, err)
	}

	if err := ps.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := ps.Get(p.ID); !errors.Is(err, service.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
	if err := ps.Delete(p.ID); !errors.Is(err, service.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound on second delete, got %v", err)
	}
}

func TestPlayerService_EvictIdle(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})

	idle := ps.Create()
	active := ps.Create()

	cutoff := time.Now().Add(time.Millisecond)
	for active.LastSeen().Before(cutoff) {
		time.Sleep(time.Millisecond)
		if _, err := ps.Get(active.ID); err != nil {
			t.Fatal(err)
		}
	}

	if n := ps.EvictIdle(cutoff); n != 1 {
		t.Fatalf("expected 1 player evicted, got %d", n)
	}
	if _, err := ps.Get(idle.ID); !errors.Is(err, service.ErrPlayerNotFound) {
		t.Errorf("expected idle player dropped, got %v", err)
	}
	if _, err := ps.Get(active.ID); err != nil {
		t.Errorf("expected recently seen player kept, got %v", err)
	}
	if ps.Len() != 1 {
		t.Errorf("expected 1 player left, got %d", ps.Len())
	}
}

func TestPlayerService_SweepIdle(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})
	p := ps.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ps.SweepIdle(ctx, time.Millisecond, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for ps.Len() != 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("idle player was never swept")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	if _, err := ps.Get(p.ID); !errors.Is(err, service.ErrPlayerNotFound) {
		t.Errorf("expected swept player gone, got %v", err)
	}
}

func TestPlayerService_LoadQuiz(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})
	p := ps.Create()
	ctx := context.Background()

	if err := ps.LoadQuiz(ctx, p.ID, "a/One.txt", nil); err != nil {
		t.Fatal(err)
	}
	st := p.Session.Get()
	if st.SourceName != "a/One.txt" || len(st.AllQuestions) != 2 {
		t.Errorf("unexpected state %+v", st)
	}

	if err := ps.LoadQuiz(ctx, p.ID, "blank.txt", nil); !errors.Is(err, questionbank.ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
	if err := ps.LoadQuiz(ctx, p.ID, "missing.txt", nil); !errors.Is(err, errNoFile) {
		t.Errorf("expected fetch error, got %v", err)
	}
	if got := p.Session.Get().SourceName; got != "a/One.txt" {
		t.Errorf("failed loads replaced the session: %q", got)
	}
}

func TestPlayerService_LoadQuizWithLevels(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})
	p := ps.Create()

	if err := ps.LoadQuiz(context.Background(), p.ID, "a/One.txt", []level.Level{"Level 2"}); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Session.Get().DrawOrder); n != 1 {
		t.Errorf("expected 1 question drawn, got %d", n)
	}
}

func TestPlayerService_LoadCombined(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})
	p := ps.Create()

	if err := ps.LoadCombined(context.Background(), p.ID, []string{"a/One.txt", "b/Two.txt"}, nil); err != nil {
		t.Fatal(err)
	}

	st := p.Session.Get()
	if st.SourceName != "Combined (2 quizzes)" {
		t.Errorf("unexpected source %q", st.SourceName)
	}
	if st.LevelCounts["Level 1"] != 2 || st.LevelCounts["Level 2"] != 1 {
		t.Errorf("unexpected level counts %v", st.LevelCounts)
	}
	for _, q := range st.AllQuestions {
		if q.Bank == "" {
			t.Errorf("question %q has no bank tag", q.Title())
		}
	}
}

func TestPlayerService_BrowseClearsSession(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})
	p := ps.Create()
	ctx := context.Background()

	if err := ps.LoadQuiz(ctx, p.ID, "a/One.txt", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ps.Browse(ctx, p.ID, "a"); err != nil {
		t.Fatal(err)
	}

	if p.Session.Get().Active() {
		t.Error("expected navigation to discard the session")
	}
	if p.Nav.Folder() != "a" {
		t.Errorf("expected folder a, got %q", p.Nav.Folder())
	}
}

func TestPlayerService_StaleBrowseIgnored(t *testing.T) {
	src := &fakeSource{
		files:   quizFiles(),
		block:   "slow",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ps := newService(src)
	p := ps.Create()
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := ps.Browse(ctx, p.ID, "slow")
		errc <- err
	}()
	<-src.entered

	if _, err := ps.Browse(ctx, p.ID, "fast"); err != nil {
		t.Fatal(err)
	}
	if err := ps.LoadQuiz(ctx, p.ID, "a/One.txt", nil); err != nil {
		t.Fatal(err)
	}

	close(src.release)
	if err := <-errc; !errors.Is(err, service.ErrStaleNavigation) {
		t.Fatalf("expected ErrStaleNavigation, got %v", err)
	}

	if p.Nav.Folder() != "fast" {
		t.Errorf("stale listing overwrote folder: %q", p.Nav.Folder())
	}
	if !p.Session.Get().Active() {
		t.Error("stale listing discarded the newer session")
	}
}

func TestPlayerService_UnknownPlayer(t *testing.T) {
	ps := newService(&fakeSource{files: quizFiles()})

	if err := ps.LoadQuiz(context.Background(), "nope", "a/One.txt", nil); !errors.Is(err, service.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"meteo/Clouds (-).txt": "Clouds",
		"Combined (3 quizzes)": "Combined (3 quizzes)",
	}
	for in, want := range tests {
		if got := service.Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
