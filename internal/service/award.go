package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"grantguard/internal/domain"
)

const dateLayout = "2006-01-02"

// AwardForm is the raw award-creation form
type AwardForm struct {
	Title           string
	Sponsor         string
	SponsorType     string
	Amount          string
	StartDate       string
	EndDate         string
	Department      string
	College         string
	ContactEmail    string
	Abstract        string
	Keywords        string
	Collaborators   string
	BudgetPersonnel string
	BudgetEquipment string
	BudgetTravel    string
	BudgetMaterials string
}

// Creator identifies the user an award is recorded for
type Creator struct {
	UserID uint
	Email  string
}

// AwardService records and lists awards
type AwardService struct {
	awards AwardStore
}

func NewAwardService(awards AwardStore) *AwardService {
	return &AwardService{awards: awards}
}

// Create validates form and stores a pending award owned by creator.
// Date order, amount sign and overlapping awards are not checked.
func (s *AwardService) Create(ctx context.Context, creator Creator, form AwardForm) (*domain.Award, error) {
	award, err := form.award(creator)
	if err != nil {
		return nil, err
	}
	if err := s.awards.Create(ctx, award); err != nil {
		return nil, storeErr("create award", err)
	}
	return award, nil
}

// ListForUser returns the awards created by email, most recent first
func (s *AwardService) ListForUser(ctx context.Context, email string) ([]domain.Award, error) {
	awards, err := s.awards.ListByCreator(ctx, email)
	if err != nil {
		return nil, storeErr("list awards", err)
	}
	return awards, nil
}

func (f AwardForm) award(creator Creator) (*domain.Award, error) {
	if f.Title == "" || (f.SponsorType == "" && f.Sponsor == "") || f.Amount == "" || f.StartDate == "" || f.EndDate == "" {
		return nil, fmt.Errorf("%w: title, sponsor_type, amount, start_date and end_date are required", domain.ErrMissingInput)
	}
	amount, err := parseAmount("amount", f.Amount)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}

	award := &domain.Award{
		CreatedByEmail: creator.Email,
		Title:          f.Title,
		Sponsor:        optional(f.Sponsor),
		SponsorType:    optional(f.SponsorType),
		Amount:         amount,
		StartDate:      start,
		EndDate:        end,
		Status:         domain.AwardStatusPending,
		Department:     optional(f.Department),
		College:        optional(f.College),
		ContactEmail:   optional(f.ContactEmail),
		Abstract:       optional(f.Abstract),
		Keywords:       optional(f.Keywords),
		Collaborators:  optional(f.Collaborators),
	}
	if creator.UserID != 0 {
		id := creator.UserID
		award.PIID = &id
	}

	budget := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"budget_personnel", f.BudgetPersonnel, &award.BudgetPersonnel},
		{"budget_equipment", f.BudgetEquipment, &award.BudgetEquipment},
		{"budget_travel", f.BudgetTravel, &award.BudgetTravel},
		{"budget_materials", f.BudgetMaterials, &award.BudgetMaterials},
	}
	var total float64
	var anyBudget bool
	for _, b := range budget {
		if b.raw == "" {
			continue
		}
		v, err := parseAmount(b.name, b.raw)
		if err != nil {
			return nil, err
		}
		*b.dst = &v
		total += v
		anyBudget = true
	}
	if anyBudget {
		award.TotalBudget = &total
	}
	return award, nil
}

func parseAmount(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrMissingInput, field, raw)
	}
	return v, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", domain.ErrMissingInput, field, raw)
	}
	return t, nil
}

// optional maps an empty form value to NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
