package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	selectUserColumns = `id, email, password, first_name, last_name, phone, role, main_address_id, created_at, updated_at`

	insertUserQuery = `
		INSERT INTO users (email, password, first_name, last_name, phone, role, main_address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	updateUserQuery = `
		UPDATE users
		SET email = $1,
			first_name = $2,
			last_name = $3,
			phone = $4,
			main_address_id = $5,
			updated_at = $6
		WHERE id = $7
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(`SELECT ` + selectUserColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, user)
	}

	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) Create(user User) (User, error) {
	var id int
	err := r.db.QueryRow(
		insertUserQuery,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.MainAddressID,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) Update(id int, userUpdate User) (User, error) {
	result, err := r.db.Exec(
		updateUserQuery,
		userUpdate.Email,
		userUpdate.FirstName,
		userUpdate.LastName,
		userUpdate.Phone,
		userUpdate.MainAddressID,
		userUpdate.UpdatedAt,
		id,
	)
	if err != nil {
		return User{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var mainAddress sql.NullInt64
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&mainAddress,
		&createdAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}

	if mainAddress.Valid {
		v := int(mainAddress.Int64)
		user.MainAddressID = &v
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.String
	}

	return user, nil
}
