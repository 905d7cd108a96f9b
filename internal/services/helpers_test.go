package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	"github.com/yungbote/slideforge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
)

type testRepos struct {
	db            *gorm.DB
	log           *logger.Logger
	users         repos.UserRepo
	links         repos.TransferLinkRepo
	presentations repos.PresentationRepo
	history       repos.PromptHistoryRepo
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return testRepos{
		db:            db,
		log:           log,
		users:         repos.NewUserRepo(db, log),
		links:         repos.NewTransferLinkRepo(db, log),
		presentations: repos.NewPresentationRepo(db, log),
		history:       repos.NewPromptHistoryRepo(db, log),
	}
}

func asUser(userID uuid.UUID, demo bool) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID, IsDemo: demo})
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, len(e.msgs))
	for i, m := range e.msgs {
		out[i] = m.Event
	}
	return out
}

// fakePipeline fails the first failures runs, then returns slides.
type fakePipeline struct {
	mu       sync.Mutex
	failures int
	runs     int
	inputs   []deck.UserInput
	slides   []deck.AssembledSlide
	err      error
}

func (f *fakePipeline) next(in deck.UserInput) ([]deck.AssembledSlide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.inputs = append(f.inputs, in)
	if f.runs <= f.failures {
		return nil, f.err
	}
	return f.slides, nil
}

func (f *fakePipeline) Run(ctx context.Context, in deck.UserInput) ([]deck.AssembledSlide, error) {
	return f.next(in)
}

func (f *fakePipeline) RunStream(ctx context.Context, in deck.UserInput, onProgress deck.ProgressFunc) ([]deck.AssembledSlide, error) {
	slides, err := f.next(in)
	if err != nil {
		return nil, err
	}
	for i := range slides {
		onProgress(deck.Progress{Type: deck.ProgressSlidePreview, Step: deck.StepSlideComplete, SlideIndex: i + 1, SlidePreview: &slides[i], Percentage: float64(15 + 70*(i+1)/len(slides))})
	}
	return slides, nil
}

func sampleSlides(n int) []deck.AssembledSlide {
	out := make([]deck.AssembledSlide, n)
	for i := range out {
		out[i] = deck.AssembledSlide{
			Background: deck.Background{Gradient: deck.BackgroundGradient{From: "#1e3a8a", To: "#3b82f6", Angle: 135, Type: deck.GradientLinear}},
			Text:       deck.TextBlock{Headline: "Slide", Body: "Body", Color: deck.DefaultTextColor, Font: deck.DefaultFont},
			Meta:       deck.SlideMeta{SlideIndex: i + 1, Composition: deck.CompositionCentered, Score: deck.DefaultScore},
		}
	}
	return out
}

func testPresentation(userID uuid.UUID, slidesJSON []byte) *types.Presentation {
	return &types.Presentation{UserID: userID, Title: "Deck", SlidesJSON: datatypes.JSON(slidesJSON)}
}
