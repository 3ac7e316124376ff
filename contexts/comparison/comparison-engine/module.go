package comparisonengine

import (
	"log/slog"

	httpadapter "patchbay/contexts/comparison/comparison-engine/adapters/http"
	"patchbay/contexts/comparison/comparison-engine/adapters/memory"
	"patchbay/contexts/comparison/comparison-engine/application/commands"
	"patchbay/contexts/comparison/comparison-engine/application/queries"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionRepository
	Entries   ports.EntryDirectory
	Rand      ports.RandSource
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Answers:   deps.Answers,
		Questions: deps.Questions,
		Entries:   deps.Entries,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	pairUseCase := queries.PairUseCase{
		Entries: deps.Entries,
		Rand:    deps.Rand,
		Logger:  deps.Logger,
	}
	similarityUseCase := queries.SimilarityUseCase{
		Answers:   deps.Answers,
		Questions: deps.Questions,
	}
	questionUseCase := queries.QuestionUseCase{
		Questions: deps.Questions,
	}
	auditUseCase := queries.AuditUseCase{
		Answers:   deps.Answers,
		Questions: deps.Questions,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:      voteUseCase,
			Pairs:      pairUseCase,
			Similarity: similarityUseCase,
			Questions:  questionUseCase,
			Audit:      auditUseCase,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to a shared memory store, optionally
// with a deterministic rand source for pair-selection tests.
func NewInMemoryModule(seed []entities.Question, rand ports.RandSource, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Answers:   store,
		Questions: store,
		Entries:   store,
		Rand:      rand,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
