package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/employee-api/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-api/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
)

const (
	selectEmployeeColumns = `SELECT id, first_name, last_name, email FROM employees`

	findAllEmployeesQuery       = selectEmployeeColumns + ` ORDER BY id`
	findEmployeeByIDQuery       = selectEmployeeColumns + ` WHERE id = $1`
	findEmployeeByEmailQuery    = selectEmployeeColumns + ` WHERE email = $1 LIMIT 1`
	findEmployeeByFullNameQuery = selectEmployeeColumns + ` WHERE first_name = $1 AND last_name = $2 ORDER BY id LIMIT 2`

	insertEmployeeQuery = `
        INSERT INTO employees (first_name, last_name, email)
        VALUES ($1, $2, $3)
        RETURNING id, first_name, last_name, email
    `
	updateEmployeeQuery = `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               email = $3
         WHERE id = $4
        RETURNING id, first_name, last_name, email
    `
	deleteEmployeeByIDQuery = `DELETE FROM employees WHERE id = $1`
)

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool    pgdb.Queryer
	metrics *metrics.Metrics
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。m は nil でも構いません。
func NewEmployeeRepository(pool pgdb.Queryer, m *metrics.Metrics) *EmployeeRepository {
	return &EmployeeRepository{pool: pool, metrics: m}
}

// FindAll は全社員を ID 順に取得します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_all", time.Now())

	rows, err := pgdb.QueryerFromContext(ctx, r.pool).Query(ctx, findAllEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_id", time.Now())

	row := pgdb.QueryerFromContext(ctx, r.pool).QueryRow(ctx, findEmployeeByIDQuery, id)
	found, err := scanEmployee(row)
	if err != nil {
		return nil, wrapQueryError("failed to get employee by id", err)
	}
	return found, nil
}

// FindByEmail はメールアドレスの完全一致で社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_email", time.Now())

	row := pgdb.QueryerFromContext(ctx, r.pool).QueryRow(ctx, findEmployeeByEmailQuery, email)
	found, err := scanEmployee(row)
	if err != nil {
		return nil, wrapQueryError("failed to get employee by email", err)
	}
	return found, nil
}

// FindByFirstAndLastName は姓名が一致する社員を 1 件取得します。
// 複数件一致した場合は ErrNonUniqueResult を返します。
func (r *EmployeeRepository) FindByFirstAndLastName(ctx context.Context, firstName, lastName string) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_full_name", time.Now())

	rows, err := pgdb.QueryerFromContext(ctx, r.pool).Query(ctx, findEmployeeByFullNameQuery, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by name: %w", err)
	}
	defer rows.Close()

	matches, err := scanEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by name: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, employee.ErrEmployeeNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, employee.ErrNonUniqueResult
	}
}

// Save は ID 未採番なら INSERT、採番済みなら UPDATE を実行します。
// 更新対象が存在しない場合は ErrEmployeeNotFound を返します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e == nil {
		return nil, errors.New("failed to save employee: employee is nil")
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)

	if !e.IsPersisted() {
		defer r.metrics.ObserveDBQuery("save_insert", time.Now())

		row := exec.QueryRow(ctx, insertEmployeeQuery, e.FirstName, e.LastName, e.Email)
		created, err := scanEmployee(row)
		if err != nil {
			return nil, fmt.Errorf("failed to save employee: %w", err)
		}
		return created, nil
	}

	defer r.metrics.ObserveDBQuery("save_update", time.Now())

	row := exec.QueryRow(ctx, updateEmployeeQuery, e.FirstName, e.LastName, e.Email, e.ID)
	updated, err := scanEmployee(row)
	if err != nil {
		return nil, wrapQueryError("failed to update employee", err)
	}
	return updated, nil
}

// Delete は値の ID で社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, e *employee.Employee) error {
	if e == nil {
		return nil
	}
	return r.DeleteByID(ctx, e.ID)
}

// DeleteByID は ID で社員を削除します。対象が無くてもエラーにしません。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	defer r.metrics.ObserveDBQuery("delete_by_id", time.Now())

	if _, err := pgdb.QueryerFromContext(ctx, r.pool).Exec(ctx, deleteEmployeeByIDQuery, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEmployees(rows pgx.Rows) ([]*employee.Employee, error) {
	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func wrapQueryError(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
