package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/johndosdos/talkroom/internal/database"
	"github.com/johndosdos/talkroom/internal/model"
)

var _ Store = (*Postgres)(nil)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// txBeginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres implements Store on top of the sqlc queries.
type Postgres struct {
	db database.DBTX
	q  *database.Queries
}

// NewPostgres returns a Postgres store using db, usually a *pgxpool.Pool.
func NewPostgres(db database.DBTX) *Postgres {
	return &Postgres{db: db, q: database.New(db)}
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toUser(u database.User) model.User {
	return model.User{
		ID:        u.UserID.Bytes,
		Username:  u.Username,
		Email:     u.Email,
		Icon:      u.Icon.String,
		CreatedAt: u.CreatedAt.Time,
	}
}

func toTalk(t database.Talk) model.Talk {
	return model.Talk{
		ID:         t.ID,
		Message:    t.Message,
		SenderID:   t.SenderID.Bytes,
		ReceiverID: t.ReceiverID.Bytes,
		Time:       t.Time.Time,
	}
}

// mapErr translates driver errors into the store's sentinels.
func mapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("store: %s: %w", op, ErrConflict)
	}

	return fmt.Errorf("store: %s: %w", op, err)
}

func (p *Postgres) CreateUser(ctx context.Context, u NewUser) (model.User, error) {
	user, err := p.q.CreateUser(ctx, database.CreateUserParams{
		UserID:   pgUUID(u.ID),
		Username: u.Username,
		Email:    u.Email,
	})
	if err != nil {
		return model.User{}, mapErr("create user", err)
	}

	return toUser(user), nil
}

func (p *Postgres) CreateUsers(ctx context.Context, users []NewUser) ([]uuid.UUID, error) {
	if len(users) == 0 {
		return nil, nil
	}

	arg := database.CreateUsersParams{
		UserIds:   make([]pgtype.UUID, 0, len(users)),
		Usernames: make([]string, 0, len(users)),
		Emails:    make([]string, 0, len(users)),
	}
	for _, u := range users {
		arg.UserIds = append(arg.UserIds, pgUUID(u.ID))
		arg.Usernames = append(arg.Usernames, u.Username)
		arg.Emails = append(arg.Emails, u.Email)
	}

	rows, err := p.q.CreateUsers(ctx, arg)
	if err != nil {
		return nil, mapErr("create users", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, id := range rows {
		ids = append(ids, id.Bytes)
	}

	return ids, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := p.q.GetUserById(ctx, pgUUID(id))
	if err != nil {
		return model.User{}, mapErr("get user by id", err)
	}

	return toUser(user), nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	user, err := p.q.GetUserByUsername(ctx, username)
	if err != nil {
		return model.User{}, mapErr("get user by username", err)
	}

	return toUser(user), nil
}

func (p *Postgres) ListUsersExcept(ctx context.Context, id uuid.UUID, keyword string) ([]model.User, error) {
	rows, err := p.q.ListUsersExcept(ctx, database.ListUsersExceptParams{
		UserID:  pgUUID(id),
		Keyword: keyword,
	})
	if err != nil {
		return nil, mapErr("list users", err)
	}

	users := make([]model.User, 0, len(rows))
	for _, u := range rows {
		users = append(users, toUser(u))
	}

	return users, nil
}

func (p *Postgres) ListUserIDsExcept(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := p.q.ListUserIDsExcept(ctx, pgUUID(id))
	if err != nil {
		return nil, mapErr("list user ids", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Bytes)
	}

	return ids, nil
}

func (p *Postgres) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (model.User, error) {
	user, err := p.q.UpdateUsername(ctx, database.UpdateUsernameParams{
		UserID:   pgUUID(id),
		Username: username,
	})
	if err != nil {
		return model.User{}, mapErr("update username", err)
	}

	return toUser(user), nil
}

func (p *Postgres) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (model.User, error) {
	user, err := p.q.UpdateEmail(ctx, database.UpdateEmailParams{
		UserID: pgUUID(id),
		Email:  email,
	})
	if err != nil {
		return model.User{}, mapErr("update email", err)
	}

	return toUser(user), nil
}

func (p *Postgres) UpdateIcon(ctx context.Context, id uuid.UUID, icon string) (model.User, error) {
	user, err := p.q.UpdateIcon(ctx, database.UpdateIconParams{
		UserID: pgUUID(id),
		Icon:   pgtype.Text{String: icon, Valid: icon != ""},
	})
	if err != nil {
		return model.User{}, mapErr("update icon", err)
	}

	return toUser(user), nil
}

func (p *Postgres) CreateUserWithPassword(ctx context.Context, u NewUser, hash string) (model.User, error) {
	db, ok := p.db.(txBeginner)
	if !ok {
		return model.User{}, errors.New("store: create user with password: connection cannot begin a transaction")
	}

	var user model.User
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		q := p.q.WithTx(tx)

		row, err := q.CreateUser(ctx, database.CreateUserParams{
			UserID:   pgUUID(u.ID),
			Username: u.Username,
			Email:    u.Email,
		})
		if err != nil {
			return mapErr("create user", err)
		}

		_, err = q.CreatePassword(ctx, database.CreatePasswordParams{
			UserID:         pgUUID(u.ID),
			HashedPassword: hash,
			CreatedAt:      pgTime(time.Now().UTC()),
		})
		if err != nil {
			return mapErr("create password", err)
		}

		user = toUser(row)
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (p *Postgres) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	now := pgTime(time.Now().UTC())

	n, err := p.q.UpdatePassword(ctx, database.UpdatePasswordParams{
		UserID:         pgUUID(id),
		HashedPassword: hash,
		UpdatedAt:      now,
	})
	if err != nil {
		return mapErr("update password", err)
	}
	if n > 0 {
		return nil
	}

	_, err = p.q.CreatePassword(ctx, database.CreatePasswordParams{
		UserID:         pgUUID(id),
		HashedPassword: hash,
		CreatedAt:      now,
	})
	if err != nil {
		return mapErr("create password", err)
	}

	return nil
}

func (p *Postgres) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	pw, err := p.q.GetPasswordByUserId(ctx, pgUUID(id))
	if err != nil {
		return "", mapErr("get password", err)
	}

	return pw.HashedPassword, nil
}

func (p *Postgres) CreateRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	_, err := p.q.CreateRefreshToken(ctx, database.CreateRefreshTokenParams{
		Token:     token,
		UserID:    pgUUID(userID),
		CreatedAt: pgTime(time.Now().UTC()),
		ExpiresAt: pgTime(expiresAt),
	})
	if err != nil {
		return mapErr("create refresh token", err)
	}

	return nil
}

func (p *Postgres) GetUserFromRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	id, err := p.q.GetUserFromRefreshTok(ctx, token)
	if err != nil {
		return uuid.UUID{}, mapErr("get refresh token", err)
	}

	return id.Bytes, nil
}

func (p *Postgres) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := p.q.RevokeRefreshToken(ctx, token); err != nil {
		return mapErr("revoke refresh token", err)
	}

	return nil
}

func (p *Postgres) CreateTalk(ctx context.Context, t NewTalk) (model.Talk, error) {
	talk, err := p.q.CreateTalk(ctx, database.CreateTalkParams{
		Message:    t.Message,
		SenderID:   pgUUID(t.SenderID),
		ReceiverID: pgUUID(t.ReceiverID),
	})
	if err != nil {
		return model.Talk{}, mapErr("create talk", err)
	}

	return toTalk(talk), nil
}

func (p *Postgres) CreateTalks(ctx context.Context, talks []NewTalk) ([]int64, error) {
	if len(talks) == 0 {
		return nil, nil
	}

	arg := database.CreateTalksParams{
		Messages:    make([]string, 0, len(talks)),
		SenderIds:   make([]pgtype.UUID, 0, len(talks)),
		ReceiverIds: make([]pgtype.UUID, 0, len(talks)),
	}
	for _, t := range talks {
		arg.Messages = append(arg.Messages, t.Message)
		arg.SenderIds = append(arg.SenderIds, pgUUID(t.SenderID))
		arg.ReceiverIds = append(arg.ReceiverIds, pgUUID(t.ReceiverID))
	}

	ids, err := p.q.CreateTalks(ctx, arg)
	if err != nil {
		return nil, mapErr("create talks", err)
	}

	return ids, nil
}

func (p *Postgres) ListThread(ctx context.Context, a, b uuid.UUID) ([]model.Talk, error) {
	rows, err := p.q.ListThread(ctx, database.ListThreadParams{
		UserID:   pgUUID(a),
		FriendID: pgUUID(b),
	})
	if err != nil {
		return nil, mapErr("list thread", err)
	}

	talks := make([]model.Talk, 0, len(rows))
	for _, t := range rows {
		talks = append(talks, toTalk(t))
	}

	return talks, nil
}

func (p *Postgres) SentMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error) {
	rows, err := p.q.SentMaxTimes(ctx, pgUUID(id))
	if err != nil {
		return nil, mapErr("sent max times", err)
	}

	times := make(map[uuid.UUID]time.Time, len(rows))
	for _, r := range rows {
		times[r.ReceiverID.Bytes] = r.LastTime.Time
	}

	return times, nil
}

func (p *Postgres) ReceivedMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error) {
	rows, err := p.q.ReceivedMaxTimes(ctx, pgUUID(id))
	if err != nil {
		return nil, mapErr("received max times", err)
	}

	times := make(map[uuid.UUID]time.Time, len(rows))
	for _, r := range rows {
		times[r.SenderID.Bytes] = r.LastTime.Time
	}

	return times, nil
}

func (p *Postgres) UpdateTalkTimes(ctx context.Context, ids []int64, times []time.Time) error {
	if len(ids) != len(times) {
		return fmt.Errorf("store: update talk times: %d ids but %d times", len(ids), len(times))
	}
	if len(ids) == 0 {
		return nil
	}

	ts := make([]pgtype.Timestamptz, 0, len(times))
	for _, t := range times {
		ts = append(ts, pgTime(t))
	}

	n, err := p.q.UpdateTalkTimes(ctx, database.UpdateTalkTimesParams{
		Ids:   ids,
		Times: ts,
	})
	if err != nil {
		return mapErr("update talk times", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("store: update talk times: updated %d of %d: %w", n, len(ids), ErrNotFound)
	}

	return nil
}
