package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"wevysya-assistant-be/internal/config"
	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"
	"wevysya-assistant-be/internal/repository/unitofwork"
	"wevysya-assistant-be/pkg/database"
	"wevysya-assistant-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type seedDocument struct {
	Title    string
	Category string
	Content  string
}

var seedDocuments = []seedDocument{
	{
		Title:    "About WeVysya",
		Category: constant.KnowledgeCategoryGeneral,
		Content:  constant.PlatformDescription,
	},
	{
		Title:    "Finding members",
		Category: "members",
		Content: "The member directory on the Discover tab lists community members by " +
			"profession, location and firm. Search supports partial matches, so " +
			"searching for 'CA' finds Chartered Accountants across all cities.",
	},
	{
		Title:    "Posting deals",
		Category: "deals",
		Content: "Business deals are posted from the Deals tab. A deal has a title, a " +
			"description and optional attachments. Posted deals are visible to the " +
			"whole community and members can respond directly.",
	},
	{
		Title:    "I2We groups",
		Category: "i2we",
		Content: "I2We groups let members pool resources for joint ventures. Any member " +
			"can create a group, invite others and track contributions from the " +
			"group page.",
	},
	{
		Title:    "Channels",
		Category: "channels",
		Content: "Channels are topic-based discussion spaces. Members join channels for " +
			"their city, profession or interests and receive updates in the " +
			"activity feed.",
	},
	{
		Title:    "Sharing links",
		Category: "links",
		Content: "Members share useful links with the community from the link form. " +
			"Shared links appear in the activity feed with a preview.",
	},
}

type seedMember struct {
	FullName   string
	Profession string
	Location   string
	Firm       string
}

var seedMembers = []seedMember{
	{FullName: "Ramesh Gupta", Profession: "Chartered Accountant", Location: "Bangalore", Firm: "Gupta & Associates"},
	{FullName: "Suresh Agarwal", Profession: "Textile Merchant", Location: "Surat", Firm: "Agarwal Textiles"},
	{FullName: "Priya Khandelwal", Profession: "Software Consultant", Location: "Hyderabad", Firm: "Khandelwal Tech"},
	{FullName: "Mahesh Porwal", Profession: "Jeweller", Location: "Jaipur", Firm: "Porwal Jewels"},
	{FullName: "Anita Maheshwari", Profession: "Interior Designer", Location: "Mumbai", Firm: "AM Designs"},
}

func main() {
	cfg := config.Load()

	dsn := cfg.Database.Connection
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else if cfg.Keys.GoogleGemini != "" {
		embedder = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	color.Cyan("Seeding knowledge documents...")

	created, skipped := 0, 0
	for _, sd := range seedDocuments {
		doc, inserted, err := insertDocument(ctx, uow, sd)
		if err != nil {
			color.Red("  ✗ %s: %v", sd.Title, err)
			os.Exit(1)
		}
		if !inserted {
			skipped++
			color.Yellow("  ~ %s (%s) already present, skipping", sd.Title, sd.Category)
			continue
		}
		created++
		color.Green("  ✓ %s (%s)", sd.Title, sd.Category)

		if embedder != nil {
			if err := embedDocument(ctx, uow, embedder, doc); err != nil {
				color.Yellow("    embedding skipped: %v", err)
			}
		}
	}

	color.Cyan("Seeding member directory...")

	memberCount, err := uow.MemberRepository().Count(ctx)
	if err != nil {
		color.Red("  ✗ member count: %v", err)
		os.Exit(1)
	}
	if memberCount > 0 {
		color.Yellow("  ~ %d members already present, skipping", memberCount)
	} else {
		for _, sm := range seedMembers {
			member := entity.Member{
				Id:         uuid.New(),
				FullName:   sm.FullName,
				Profession: sm.Profession,
				Location:   sm.Location,
				Firm:       sm.Firm,
				CreatedAt:  time.Now(),
			}
			if err := uow.MemberRepository().Create(ctx, &member); err != nil {
				color.Red("  ✗ %s: %v", sm.FullName, err)
				os.Exit(1)
			}
			color.Green("  ✓ %s (%s, %s)", sm.FullName, sm.Profession, sm.Location)
		}
	}

	color.Cyan("Done: %d created, %d skipped", created, skipped)
}

// insertDocument is check-then-insert: an existing (title, category) pair is
// left untouched.
func insertDocument(ctx context.Context, uow unitofwork.UnitOfWork, sd seedDocument) (*entity.KnowledgeDocument, bool, error) {
	repo := uow.KnowledgeDocumentRepository()

	existing, err := repo.FindOne(ctx, specification.ByTitleAndCategory{
		Title:    sd.Title,
		Category: sd.Category,
	})
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		return existing, false, nil
	}

	doc := entity.KnowledgeDocument{
		Id:        uuid.New(),
		Title:     sd.Title,
		Category:  sd.Category,
		Source:    "seed",
		Content:   sd.Content,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, &doc); err != nil {
		return nil, false, err
	}
	return &doc, true, nil
}

func embedDocument(ctx context.Context, uow unitofwork.UnitOfWork, embedder embedding.EmbeddingProvider, doc *entity.KnowledgeDocument) error {
	content := fmt.Sprintf("Title: %s\nCategory: %s\n\n%s", doc.Title, doc.Category, doc.Content)

	res, err := embedder.Generate(embedding.Truncate(content), "RETRIEVAL_DOCUMENT")
	if err != nil {
		return err
	}

	repo := uow.KnowledgeEmbeddingRepository()
	if err := repo.DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}
	emb := entity.KnowledgeEmbedding{
		Id:             uuid.New(),
		DocumentId:     doc.Id,
		EmbeddingValue: res.Embedding.Values,
		CreatedAt:      time.Now(),
	}
	return repo.Create(ctx, &emb)
}
