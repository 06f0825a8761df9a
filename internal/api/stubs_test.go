package api

import (
	"context"
	"fmt"
	"strings"

	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// Hand-rolled service stubs for handler tests. They keep just enough state
// to exercise the HTTP surface.

type stubUserService struct {
	users map[string]*models.User
}

func newStubUserService(users ...*models.User) *stubUserService {
	m := make(map[string]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &stubUserService{users: m}
}

func (s *stubUserService) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == strings.ToLower(req.Email) {
			return nil, core.ErrEmailTaken
		}
	}
	user := &models.User{
		ID: fmt.Sprintf("user-%d", len(s.users)+1), Username: req.Username,
		Email: strings.ToLower(req.Email), Role: models.RoleBuyer, Status: models.UserActive,
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserService) Login(_ context.Context, email, password string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			if password != "correct" {
				return nil, core.ErrInvalidPassword
			}
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (s *stubUserService) FirebaseLogin(context.Context, string) (*models.User, error) {
	return nil, core.ErrFirebaseToken
}

func (s *stubUserService) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) Profile(_ context.Context, id string) (*models.UserProfile, error) {
	u, err := s.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}, nil
}

func (s *stubUserService) UpdateProfile(_ context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	u, err := s.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	return u, nil
}

func (s *stubUserService) SetStatus(_ context.Context, _, id, action string) (*models.User, error) {
	u, err := s.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	switch action {
	case core.ActionBan:
		u.Status = models.UserBanned
	case core.ActionUnban:
		u.Status = models.UserActive
	default:
		return nil, core.ErrInvalidStatusAction
	}
	return u, nil
}

func (s *stubUserService) ListAll(context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

type stubCartService struct {
	items map[string][]models.CartItem // userID -> items
}

func newStubCartService() *stubCartService {
	return &stubCartService{items: make(map[string][]models.CartItem)}
}

func (s *stubCartService) Get(_ context.Context, userID string) ([]models.CartEntry, error) {
	entries := make([]models.CartEntry, 0, len(s.items[userID]))
	for _, item := range s.items[userID] {
		entries = append(entries, models.CartEntry{
			Template: &models.Template{ID: item.TemplateID},
			Quantity: item.Quantity,
		})
	}
	return entries, nil
}

func (s *stubCartService) Add(_ context.Context, userID, templateID string) error {
	for i := range s.items[userID] {
		if s.items[userID][i].TemplateID == templateID {
			s.items[userID][i].Quantity++
			return nil
		}
	}
	s.items[userID] = append(s.items[userID], models.CartItem{TemplateID: templateID, Quantity: 1})
	return nil
}

func (s *stubCartService) SetQuantity(_ context.Context, userID, templateID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.items[userID] {
		if s.items[userID][i].TemplateID == templateID {
			s.items[userID][i].Quantity = quantity
			return nil
		}
	}
	s.items[userID] = append(s.items[userID], models.CartItem{TemplateID: templateID, Quantity: quantity})
	return nil
}

func (s *stubCartService) Increment(_ context.Context, userID, templateID string) error {
	for i := range s.items[userID] {
		if s.items[userID][i].TemplateID == templateID {
			s.items[userID][i].Quantity++
			return nil
		}
	}
	return core.ErrCartItemNotFound
}

func (s *stubCartService) Decrement(_ context.Context, userID, templateID string) error {
	for i := range s.items[userID] {
		if s.items[userID][i].TemplateID == templateID {
			if s.items[userID][i].Quantity > 1 {
				s.items[userID][i].Quantity--
			}
			return nil
		}
	}
	return core.ErrCartItemNotFound
}

func (s *stubCartService) Remove(_ context.Context, userID, templateID string) error {
	kept := s.items[userID][:0]
	for _, item := range s.items[userID] {
		if item.TemplateID != templateID {
			kept = append(kept, item)
		}
	}
	s.items[userID] = kept
	return nil
}

func (s *stubCartService) Clear(_ context.Context, userID string) error {
	s.items[userID] = nil
	return nil
}

type stubCatalogService struct {
	templates []*models.Template
}

func (s *stubCatalogService) ListApproved(context.Context) ([]*models.Template, error) {
	return s.templates, nil
}

func (s *stubCatalogService) Get(_ context.Context, id string) (*models.Template, error) {
	for _, tpl := range s.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, core.ErrTemplateNotFound
}

func (s *stubCatalogService) Free(context.Context) ([]*models.Template, error)     { return nil, nil }
func (s *stubCatalogService) Featured(context.Context) ([]*models.Template, error) { return nil, nil }

func (s *stubCatalogService) Search(_ context.Context, query string) ([]*models.Template, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	out := make([]*models.Template, 0)
	for _, tpl := range s.templates {
		if strings.Contains(strings.ToLower(tpl.Title), strings.ToLower(query)) {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (s *stubCatalogService) Suggestions(context.Context, string) ([]*models.Template, error) {
	return nil, nil
}

type stubTemplateService struct {
	reviewErr error
	reviewed  []string // "id action"
}

func (s *stubTemplateService) Upload(_ context.Context, _ *models.User, tpl *models.Template) (*models.Template, error) {
	tpl.ID = "tpl-new"
	tpl.Status = models.StatusPending
	return tpl, nil
}

func (s *stubTemplateService) Mine(context.Context, string) ([]*models.Template, error) {
	return nil, nil
}

func (s *stubTemplateService) Update(context.Context, *models.User, string, models.UpdateTemplateRequest) (*models.Template, error) {
	return nil, core.ErrForbidden
}

func (s *stubTemplateService) Delete(context.Context, *models.User, string) error { return nil }

func (s *stubTemplateService) SetColor(context.Context, *models.User, string, string) (*models.Template, error) {
	return nil, core.ErrInvalidColor
}

func (s *stubTemplateService) Review(_ context.Context, _, id, action string) (*models.Template, error) {
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}
	s.reviewed = append(s.reviewed, id+" "+action)
	status := models.StatusApproved
	if action == core.ActionReject {
		status = models.StatusRejected
	}
	return &models.Template{ID: id, Status: status}, nil
}

func (s *stubTemplateService) ListByStatus(context.Context, models.TemplateStatus) ([]*models.Template, error) {
	return nil, nil
}

type stubPurchaseService struct {
	err error
}

func (s *stubPurchaseService) Purchase(_ context.Context, _ *models.User, id string) (*models.Template, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Template{ID: id, Sales: 1}, nil
}

type stubActivityService struct{}

func (stubActivityService) Record(context.Context, string, string) {}
func (stubActivityService) Feed(context.Context) ([]*models.Activity, error) {
	return []*models.Activity{}, nil
}
func (stubActivityService) ForUser(context.Context, string) ([]*models.Activity, error) {
	return []*models.Activity{}, nil
}

type stubMetricsService struct{}

func (stubMetricsService) Overview(context.Context) (*models.Metrics, error) {
	return &models.Metrics{TotalUsers: 1}, nil
}
func (stubMetricsService) MonthlyStats(context.Context) ([]models.MonthlyStat, error) {
	return []models.MonthlyStat{}, nil
}
func (stubMetricsService) TemplateCategories(context.Context) ([]models.CategoryStat, error) {
	return []models.CategoryStat{}, nil
}

type stubSettingsService struct {
	settings models.Settings
}

func (s *stubSettingsService) Get(context.Context) (*models.Settings, error) {
	cp := s.settings
	return &cp, nil
}

func (s *stubSettingsService) Update(_ context.Context, key string, value interface{}) (*models.Settings, error) {
	if key != "autoApproval" {
		return nil, core.ErrUnknownSetting
	}
	b, ok := value.(bool)
	if !ok {
		return nil, core.ErrInvalidSettingValue
	}
	s.settings.AutoApproval = b
	cp := s.settings
	return &cp, nil
}
