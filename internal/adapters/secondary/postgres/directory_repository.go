// Package postgres holds the secondary adapters backed by PostgreSQL. The
// customer and agent directory is reference data that outlives any one
// process, unlike the conversation state which lives in memory.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// DirectoryRepository is the secondary adapter for customer and agent
// reference data.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.DirectoryRepository = (*DirectoryRepository)(nil)

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

const customerColumns = "id, name, phone, email"

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomer retrieves a customer and their loan applications by ID.
func (r *DirectoryRepository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}

	if err := r.loadApplications(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomerByPhone retrieves a customer by their registered phone number.
func (r *DirectoryRepository) GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE phone = $1", phone)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}

	if err := r.loadApplications(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers retrieves all customers with their applications.
func (r *DirectoryRepository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range customers {
		if err := r.loadApplications(ctx, c); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

func (r *DirectoryRepository) loadApplications(ctx context.Context, customer *domain.Customer) error {
	rows, err := r.pool.Query(ctx,
		"SELECT id, type, amount, status, last_update FROM applications WHERE customer_id = $1 ORDER BY id",
		customer.ID)
	if err != nil {
		return fmt.Errorf("failed to load applications for %s: %w", customer.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.Type, &app.Amount, &app.Status, &app.LastUpdate); err != nil {
			return fmt.Errorf("failed to scan application: %w", err)
		}
		customer.Applications = append(customer.Applications, app)
	}
	return rows.Err()
}

const agentColumns = "username, name, status, email, phone, password_hash"

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var a domain.Agent
	if err := row.Scan(&a.Username, &a.Name, &a.Status, &a.Email, &a.Phone, &a.HashedPassword); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAgent retrieves an agent by username.
func (r *DirectoryRepository) GetAgent(ctx context.Context, username string) (*domain.Agent, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+agentColumns+" FROM agents WHERE username = $1", username)

	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent %s: %w", username, err)
	}
	return agent, nil
}

// ListAgents retrieves all agents ordered by username.
func (r *DirectoryRepository) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+agentColumns+" FROM agents ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Ping reports backend health for readiness checks.
func (r *DirectoryRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
