package adminclient

import (
	"context"
	"fmt"

	"github.com/avolkov/shop-api/internal/models"
)

// ListState tracks a resource list through its fetch cycle.
type ListState int

const (
	StateIdle ListState = iota
	StateFetching
	StatePopulated
	StateFetchFailed
)

// Confirmer answers a confirmation prompt. The CLI wires this to stdin,
// tests wire it to a constant.
type Confirmer func(prompt string) bool

// Dashboard drives the admin screens: it holds the two resource lists,
// re-fetches after every mutation, and owns the self-delete branch.
// It is meant to be used from a single goroutine; requests are sequential
// and user-triggered.
type Dashboard struct {
	api     *Client
	userID  string
	confirm Confirmer
	logout  func()

	productState ListState
	products     []models.Product

	userState ListState
	users     []models.PublicUser
}

func NewDashboard(api *Client, authenticatedUserID string, confirm Confirmer, logout func()) *Dashboard {
	return &Dashboard{
		api:     api,
		userID:  authenticatedUserID,
		confirm: confirm,
		logout:  logout,
	}
}

func (d *Dashboard) Products() ([]models.Product, ListState) { return d.products, d.productState }
func (d *Dashboard) Users() ([]models.PublicUser, ListState) { return d.users, d.userState }

func (d *Dashboard) LoadProducts(ctx context.Context) error {
	d.productState = StateFetching
	items, err := d.api.ListProducts(ctx)
	if err != nil {
		d.productState = StateFetchFailed
		return err
	}
	d.products = items
	d.productState = StatePopulated
	return nil
}

func (d *Dashboard) LoadUsers(ctx context.Context) error {
	d.userState = StateFetching
	users, err := d.api.ListUsers(ctx)
	if err != nil {
		d.userState = StateFetchFailed
		return err
	}
	d.users = users
	d.userState = StatePopulated
	return nil
}

// Mutations re-fetch the full list afterwards; there is no optimistic update.

func (d *Dashboard) CreateProduct(ctx context.Context, in ProductInput) error {
	if _, err := d.api.CreateProduct(ctx, in); err != nil {
		return err
	}
	return d.LoadProducts(ctx)
}

func (d *Dashboard) DeleteProduct(ctx context.Context, id string) error {
	if !d.confirm("Delete this product?") {
		return nil
	}
	if err := d.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return d.LoadProducts(ctx)
}

func (d *Dashboard) SetRole(ctx context.Context, id, role string) error {
	if _, err := d.api.SetRole(ctx, id, role); err != nil {
		return err
	}
	return d.LoadUsers(ctx)
}

// DeleteUser branches on whether the target is the authenticated user.
// Deleting one's own account logs out immediately and must not re-fetch
// the user list: there is no valid session left to fetch with.
func (d *Dashboard) DeleteUser(ctx context.Context, id, email string) error {
	self := id == d.userID

	var prompt string
	if self {
		prompt = fmt.Sprintf(
			"WARNING: you are about to delete your own account (%s). "+
				"This logs you out immediately and cannot be undone. Are you absolutely sure?",
			email,
		)
	} else {
		prompt = fmt.Sprintf("Are you sure you want to delete the user %q? This action cannot be undone.", email)
	}

	if !d.confirm(prompt) {
		return nil
	}

	if err := d.api.DeleteUser(ctx, id); err != nil {
		return err
	}

	if self {
		if d.logout != nil {
			d.logout()
		}
		return nil
	}
	return d.LoadUsers(ctx)
}
