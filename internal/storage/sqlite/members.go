package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const memberColumns = "id, email, display_name, password_hash, created_at, updated_at"

// CreateMember inserts a new member account into the database.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		member.ID,
		member.Email,
		member.DisplayName,
		member.PasswordHash,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetMemberByEmail retrieves a member by their email address.
func (s *SQLiteStore) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE email = ?", email)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member with email %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return member, nil
}

// GetMemberByID retrieves a member by their ID.
func (s *SQLiteStore) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}

	return member, nil
}

func scanMember(row scanner) (*models.Member, error) {
	member := &models.Member{}
	err := row.Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.PasswordHash,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return member, nil
}
