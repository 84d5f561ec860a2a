// Package seed loads bootstrap rows from a YAML fixture file into the store.
// It mirrors the external admin flows that own these collections in
// production.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lunarforge/artemis/internal/store"
)

type Fixture struct {
	Projects  []ProjectRow  `yaml:"projects"`
	Leads     []LeadRow     `yaml:"leads"`
	Tasks     []TaskRow     `yaml:"tasks"`
	Revenue   []RevenueRow  `yaml:"revenue"`
	Expenses  []ExpenseRow  `yaml:"expenses"`
	Approvals []ApprovalRow `yaml:"approvals"`
}

type ProjectRow struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Status        string   `yaml:"status"`
	Phase         string   `yaml:"phase"`
	ContractValue *float64 `yaml:"contract_value"`
}

type LeadRow struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Company   string `yaml:"company"`
	Status    string `yaml:"status"`
	Tier      string `yaml:"tier"`
	Source    string `yaml:"source"`
	CreatedAt string `yaml:"created_at"`
}

type TaskRow struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Status    string `yaml:"status"`
	Priority  string `yaml:"priority"`
	ProjectID string `yaml:"project_id"`
}

type RevenueRow struct {
	ID          string  `yaml:"id"`
	Amount      float64 `yaml:"amount"`
	Collected   bool    `yaml:"collected"`
	Source      string  `yaml:"source"`
	Description string  `yaml:"description"`
	Date        string  `yaml:"date"`
}

type ExpenseRow struct {
	ID          string  `yaml:"id"`
	Amount      float64 `yaml:"amount"`
	Vendor      string  `yaml:"vendor"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Date        string  `yaml:"date"`
}

type ApprovalRow struct {
	ID          string `yaml:"id"`
	ActionType  string `yaml:"action_type"`
	Description string `yaml:"description"`
	RiskLevel   string `yaml:"risk_level"`
	Status      string `yaml:"status"`
	Payload     string `yaml:"payload"`
	CreatedAt   string `yaml:"created_at"`
}

// Load reads a fixture file.
func Load(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// Apply upserts every fixture row, generating ids for rows without one.
// Returns the number of rows written.
func Apply(ctx context.Context, w store.Writer, f Fixture, now time.Time) (int, error) {
	written := 0
	for _, row := range f.Projects {
		if err := w.PutProject(ctx, store.Project{
			ID:            orID(row.ID),
			Name:          row.Name,
			Status:        store.ProjectStatus(row.Status),
			Phase:         row.Phase,
			ContractValue: row.ContractValue,
		}); err != nil {
			return written, fmt.Errorf("seed project %q: %w", row.Name, err)
		}
		written++
	}
	for _, row := range f.Leads {
		if err := w.PutLead(ctx, store.Lead{
			ID:        orID(row.ID),
			Name:      row.Name,
			Company:   row.Company,
			Status:    row.Status,
			Tier:      store.LeadTier(row.Tier),
			Source:    row.Source,
			CreatedAt: parseDate(row.CreatedAt, now),
		}); err != nil {
			return written, fmt.Errorf("seed lead %q: %w", row.Name, err)
		}
		written++
	}
	for _, row := range f.Tasks {
		if err := w.PutTask(ctx, store.Task{
			ID:        orID(row.ID),
			Title:     row.Title,
			Status:    store.TaskStatus(row.Status),
			Priority:  store.TaskPriority(row.Priority),
			ProjectID: row.ProjectID,
		}); err != nil {
			return written, fmt.Errorf("seed task %q: %w", row.Title, err)
		}
		written++
	}
	for _, row := range f.Revenue {
		if err := w.PutRevenue(ctx, store.RevenueEntry{
			ID:          orID(row.ID),
			Amount:      row.Amount,
			Collected:   row.Collected,
			Source:      row.Source,
			Description: row.Description,
			Date:        parseDate(row.Date, now),
		}); err != nil {
			return written, fmt.Errorf("seed revenue entry: %w", err)
		}
		written++
	}
	for _, row := range f.Expenses {
		if err := w.PutExpense(ctx, store.ExpenseEntry{
			ID:          orID(row.ID),
			Amount:      row.Amount,
			Vendor:      row.Vendor,
			Category:    row.Category,
			Description: row.Description,
			Date:        parseDate(row.Date, now),
		}); err != nil {
			return written, fmt.Errorf("seed expense entry: %w", err)
		}
		written++
	}
	for _, row := range f.Approvals {
		status := store.ApprovalStatus(row.Status)
		if status == "" {
			status = store.ApprovalPending
		}
		if err := w.PutApproval(ctx, store.ApprovalRequest{
			ID:          orID(row.ID),
			ActionType:  row.ActionType,
			Description: row.Description,
			RiskLevel:   store.RiskLevel(row.RiskLevel),
			Status:      status,
			Payload:     row.Payload,
			CreatedAt:   parseDate(row.CreatedAt, now),
		}); err != nil {
			return written, fmt.Errorf("seed approval %q: %w", row.ActionType, err)
		}
		written++
	}
	return written, nil
}

func orID(id string) string {
	id = strings.TrimSpace(id)
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func parseDate(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback.UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}
