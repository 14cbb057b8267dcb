package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	"github.com/sngm3741/nasam-site/internal/config"
	"github.com/sngm3741/nasam-site/internal/content"
	mongodoc "github.com/sngm3741/nasam-site/internal/infrastructure/mongo"
	"github.com/sngm3741/nasam-site/internal/logging"
)

type seedSummary struct {
	Sections   int
	HeroPhotos int
	Categories int
	Projects   int
	Reviews    int
}

// seeder は管理画面と同じ正規化を通してコンテンツを書き込む。
type seeder struct {
	editor   *adminapp.Editor
	sections *adminapp.Sections
	reviews  adminapp.Repository[content.Review]
}

func (s seeder) seed(ctx context.Context, p *content.Partial) (seedSummary, error) {
	var summary seedSummary
	if p.Company != nil {
		if _, err := s.sections.SaveCompany(ctx, *p.Company); err != nil {
			return summary, fmt.Errorf("company: %w", err)
		}
		summary.Sections++
	}
	if p.Branding != nil {
		if _, err := s.sections.SaveBranding(ctx, *p.Branding); err != nil {
			return summary, fmt.Errorf("branding: %w", err)
		}
		summary.Sections++
	}
	if p.Hero != nil {
		if _, err := s.sections.SaveHero(ctx, *p.Hero); err != nil {
			return summary, fmt.Errorf("hero: %w", err)
		}
		summary.Sections++
	}
	for i, photo := range p.HeroPhotos {
		if _, err := s.editor.Create(ctx, photo); err != nil {
			return summary, fmt.Errorf("heroPhotos[%d]: %w", i, err)
		}
		summary.HeroPhotos++
	}
	for i, category := range p.Categories {
		if _, err := s.editor.Create(ctx, category); err != nil {
			return summary, fmt.Errorf("categories[%d]: %w", i, err)
		}
		summary.Categories++
	}
	for i, project := range p.Projects {
		if _, err := s.editor.Create(ctx, project); err != nil {
			return summary, fmt.Errorf("projects[%d]: %w", i, err)
		}
		summary.Projects++
	}
	for i, review := range p.Reviews {
		if review.CreatedAt == nil {
			now := time.Now().UTC()
			review.CreatedAt = &now
		}
		if _, err := s.reviews.Create(ctx, review); err != nil {
			return summary, fmt.Errorf("reviews[%d]: %w", i, err)
		}
		summary.Reviews++
	}
	return summary, nil
}

func newSeedCmd() *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "seed <content-file>",
		Short: "Load a content file into the document store",
		Long: `Load a YAML or JSON content file into MongoDB.

Singletons (company, branding, hero) are merged into siteContent. Collection
items are inserted as new documents. Use --drop to start from empty collections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := content.LoadPartialFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.StoreConfigured() {
				return fmt.Errorf("MONGO_URI が未設定です")
			}
			logger, err := logging.New(cfg.LogLevel, "console")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)))
			if err != nil {
				return fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
			}
			defer func() {
				_ = client.Disconnect(context.Background())
			}()

			db := client.Database(cfg.MongoDatabase)
			names := mongodoc.DefaultCollectionNames()
			if drop {
				if err := mongodoc.DropContent(ctx, db, names); err != nil {
					return err
				}
				logger.Info("既存コレクションを削除しました")
			}
			if err := mongodoc.EnsureIndexes(ctx, db, names); err != nil {
				return err
			}

			repo := mongodoc.NewContentRepository(db, names)
			s := seeder{
				editor: adminapp.NewEditor(adminapp.EditorConfig{
					HeroPhotos: repo.HeroPhotoRepo,
					Categories: repo.CategoryRepo,
					Projects:   repo.ProjectRepo,
					Reviews:    repo.ReviewRepo,
					Logger:     logger,
				}),
				sections: adminapp.NewSections(repo, nil),
				reviews:  repo.ReviewRepo,
			}
			summary, err := s.seed(ctx, partial)
			if err != nil {
				return fmt.Errorf("投入に失敗しました: %w", err)
			}
			logger.Info("Seed 完了",
				zap.String("database", cfg.MongoDatabase),
				zap.Int("sections", summary.Sections),
				zap.Int("heroPhotos", summary.HeroPhotos),
				zap.Int("categories", summary.Categories),
				zap.Int("projects", summary.Projects),
				zap.Int("reviews", summary.Reviews),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "既存のコンテンツコレクションを削除してから投入する")
	return cmd
}
