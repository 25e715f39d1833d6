package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"leadflow/internal/config"
	"leadflow/internal/db"
	"leadflow/internal/logger"
	"leadflow/internal/model"
	"leadflow/internal/repository"
)

const seedPassword = "password123"

type seedUser struct {
	Name  string
	Email string
	Role  model.Role
}

type seedLead struct {
	Name     string
	Email    string
	Company  string
	Source   string
	Status   model.LeadStatus
	Value    string
	Assignee string // email of the owning agent, empty for unassigned
	FollowIn time.Duration
}

var users = []seedUser{
	{Name: "Ada Admin", Email: "admin@leadflow.local", Role: model.RoleAdmin},
	{Name: "Max Manager", Email: "manager@leadflow.local", Role: model.RoleManager},
	{Name: "Alice Agent", Email: "alice@leadflow.local", Role: model.RoleAgent},
	{Name: "Bob Agent", Email: "bob@leadflow.local", Role: model.RoleAgent},
}

var leads = []seedLead{
	{Name: "Jane Cooper", Email: "jane@acme.test", Company: "Acme", Source: "Manual", Status: model.LeadStatusNew, Value: "1200", Assignee: "alice@leadflow.local", FollowIn: 24 * time.Hour},
	{Name: "Wade Warren", Email: "wade@globex.test", Company: "Globex", Source: "Website", Status: model.LeadStatusContacted, Value: "5400", Assignee: "alice@leadflow.local", FollowIn: -2 * time.Hour},
	{Name: "Esther Howard", Email: "esther@initech.test", Company: "Initech", Source: "Referral", Status: model.LeadStatusProposal, Value: "9800", Assignee: "bob@leadflow.local"},
	{Name: "Cameron Williamson", Email: "cameron@umbrella.test", Company: "Umbrella", Source: "Trade show", Status: model.LeadStatusConverted, Value: "15000", Assignee: "bob@leadflow.local"},
	{Name: "Brooklyn Simmons", Email: "brooklyn@hooli.test", Company: "Hooli", Source: "Website", Status: model.LeadStatusNew},
}

func main() {
	cfg := config.Load()
	log, err := logger.New(true)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting seed script")

	provider := db.NewProvider(cfg.DBDriver, cfg.DSN(), log)
	defer provider.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, provider, cfg.ResetDB, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(provider)
	leadRepo := repository.NewLeadRepository(provider)

	byEmail, created, err := seedUsers(ctx, userRepo)
	if err != nil {
		log.Fatal("failed to seed users", zap.Error(err))
	}
	log.Info("users seeded", zap.Int("created", created), zap.Int("existing", len(byEmail)-created))

	existing, err := leadRepo.List(ctx, repository.LeadFilter{})
	if err != nil {
		log.Fatal("failed to list leads", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("leads already present, skipping", zap.Int("count", len(existing)))
		return
	}
	n, err := seedLeads(ctx, leadRepo, byEmail)
	if err != nil {
		log.Fatal("failed to seed leads", zap.Error(err))
	}
	log.Info("seed completed successfully", zap.Int("leads", n))
}

// seedUsers creates the missing demo users and returns every demo user by email.
func seedUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, fmt.Errorf("hash password: %w", err)
	}

	out := make(map[string]*model.User, len(users))
	created := 0
	for _, u := range users {
		found, err := repo.FindByEmail(ctx, u.Email)
		if err == nil {
			out[u.Email] = found
			continue
		}
		if !repository.IsNotFound(err) {
			return nil, created, fmt.Errorf("error checking user %s: %w", u.Email, err)
		}

		user := &model.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			Status:       model.UserStatusActive,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, fmt.Errorf("error creating user %s: %w", u.Email, err)
		}
		out[u.Email] = user
		created++
	}
	return out, created, nil
}

func seedLeads(ctx context.Context, repo repository.LeadRepository, byEmail map[string]*model.User) (int, error) {
	now := time.Now()
	for i, l := range leads {
		lead := &model.Lead{
			Name:    l.Name,
			Email:   l.Email,
			Company: l.Company,
			Source:  l.Source,
			Date:    now.Add(-time.Duration(i) * 24 * time.Hour),
		}
		lead.SetStatus(l.Status, now)
		if l.Value != "" {
			v := decimal.RequireFromString(l.Value)
			lead.Value = &v
		}
		if owner, ok := byEmail[l.Assignee]; ok {
			id := owner.ID
			lead.AssignedToID = &id
		}
		if l.FollowIn != 0 {
			next := now.Add(l.FollowIn)
			lead.NextFollowUp = &next
		}
		if err := repo.Create(ctx, lead); err != nil {
			return i, fmt.Errorf("error creating lead %s: %w", l.Name, err)
		}
	}
	return len(leads), nil
}
