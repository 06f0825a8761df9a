package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// Cart errors.
var (
	ErrCartItemNotFound = errors.New("item not found in cart")
)

type cartService struct {
	userRepo     db.UserRepository
	templateRepo db.TemplateRepository
	logger       *zap.Logger
}

// NewCartService creates a CartService backed by the user and template
// repositories.
func NewCartService(ur db.UserRepository, tr db.TemplateRepository, logger *zap.Logger) CartService {
	return &cartService{userRepo: ur, templateRepo: tr, logger: logger}
}

// Get returns the cart with each entry resolved to its template document.
// Entries referencing templates that no longer exist are dropped from the
// result and pruned from the stored cart.
func (s *cartService) Get(ctx context.Context, userID string) ([]models.CartEntry, error) {
	if s.userRepo == nil || s.templateRepo == nil {
		return nil, errors.New("cartService: component not initialized")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s' for cart read: %w", userID, err)
	}

	entries := make([]models.CartEntry, 0, len(user.Cart))
	kept := make([]models.CartItem, 0, len(user.Cart))
	for _, item := range user.Cart {
		tpl, err := s.templateRepo.GetByID(ctx, item.TemplateID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve cart item '%s': %w", item.TemplateID, err)
		}
		entries = append(entries, models.CartEntry{Template: tpl, Quantity: item.Quantity})
		kept = append(kept, item)
	}

	if len(kept) != len(user.Cart) {
		user.Cart = kept
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Warn("failed to prune dangling cart entries",
				zap.String("userID", userID), zap.Error(err))
		}
	}
	return entries, nil
}

// Add puts a template into the cart with quantity 1. Adding an item that is
// already present bumps its quantity instead of creating a duplicate entry.
func (s *cartService) Add(ctx context.Context, userID, templateID string) error {
	return s.mutate(ctx, userID, func(user *models.User) error {
		for i := range user.Cart {
			if user.Cart[i].TemplateID == templateID {
				user.Cart[i].Quantity++
				return nil
			}
		}
		user.Cart = append(user.Cart, models.CartItem{TemplateID: templateID, Quantity: 1})
		return nil
	})
}

// SetQuantity sets the quantity for an item, inserting it when absent.
// Quantities below 1 are clamped to 1.
func (s *cartService) SetQuantity(ctx context.Context, userID, templateID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, userID, func(user *models.User) error {
		for i := range user.Cart {
			if user.Cart[i].TemplateID == templateID {
				user.Cart[i].Quantity = quantity
				return nil
			}
		}
		user.Cart = append(user.Cart, models.CartItem{TemplateID: templateID, Quantity: quantity})
		return nil
	})
}

// Increment raises an existing item's quantity by one.
func (s *cartService) Increment(ctx context.Context, userID, templateID string) error {
	return s.mutate(ctx, userID, func(user *models.User) error {
		for i := range user.Cart {
			if user.Cart[i].TemplateID == templateID {
				user.Cart[i].Quantity++
				return nil
			}
		}
		return fmt.Errorf("%w: template '%s'", ErrCartItemNotFound, templateID)
	})
}

// Decrement lowers an existing item's quantity by one, never below 1.
func (s *cartService) Decrement(ctx context.Context, userID, templateID string) error {
	return s.mutate(ctx, userID, func(user *models.User) error {
		for i := range user.Cart {
			if user.Cart[i].TemplateID == templateID {
				if user.Cart[i].Quantity > 1 {
					user.Cart[i].Quantity--
				}
				return nil
			}
		}
		return fmt.Errorf("%w: template '%s'", ErrCartItemNotFound, templateID)
	})
}

// Remove deletes one item from the cart. Removing an absent item is a no-op.
func (s *cartService) Remove(ctx context.Context, userID, templateID string) error {
	return s.mutate(ctx, userID, func(user *models.User) error {
		kept := user.Cart[:0]
		for _, item := range user.Cart {
			if item.TemplateID != templateID {
				kept = append(kept, item)
			}
		}
		user.Cart = kept
		return nil
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(user *models.User) error {
		user.Cart = []models.CartItem{}
		return nil
	})
}

// mutate loads the user, applies fn to the cart and persists the result.
func (s *cartService) mutate(ctx context.Context, userID string, fn func(*models.User) error) error {
	if s.userRepo == nil {
		return errors.New("cartService: userRepo not initialized")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user '%s' for cart update: %w", userID, err)
	}
	if err := fn(user); err != nil {
		return err
	}
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to persist cart for user '%s': %w", userID, err)
	}
	return nil
}
