package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/employee-api/internal/core/employee"
	sqlitedb "github.com/ogurasousui/employee-api/internal/platform/db/sqlite"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
)

const (
	selectEmployeeColumns = `SELECT id, first_name, last_name, email FROM employees`

	findAllEmployeesQuery       = selectEmployeeColumns + ` ORDER BY id`
	findEmployeeByIDQuery       = selectEmployeeColumns + ` WHERE id = ?`
	findEmployeeByEmailQuery    = selectEmployeeColumns + ` WHERE email = ? LIMIT 1`
	findEmployeeByFullNameQuery = selectEmployeeColumns + ` WHERE first_name = ? AND last_name = ? ORDER BY id LIMIT 2`

	insertEmployeeQuery     = `INSERT INTO employees (first_name, last_name, email) VALUES (?, ?, ?)`
	updateEmployeeQuery     = `UPDATE employees SET first_name = ?, last_name = ?, email = ? WHERE id = ?`
	deleteEmployeeByIDQuery = `DELETE FROM employees WHERE id = ?`
)

// EmployeeRepository は SQLite を利用した社員永続化の実装です。
type EmployeeRepository struct {
	db      sqlitedb.Executor
	metrics *metrics.Metrics
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db sqlitedb.Executor, m *metrics.Metrics) *EmployeeRepository {
	return &EmployeeRepository{db: db, metrics: m}
}

func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_all", time.Now())

	rows, err := sqlitedb.ExecutorFromContext(ctx, r.db).QueryContext(ctx, findAllEmployeesQuery)
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

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_id", time.Now())

	row := sqlitedb.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, findEmployeeByIDQuery, id)
	found, err := scanEmployee(row)
	if err != nil {
		return nil, wrapQueryError("failed to get employee by id", err)
	}
	return found, nil
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_email", time.Now())

	row := sqlitedb.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, findEmployeeByEmailQuery, email)
	found, err := scanEmployee(row)
	if err != nil {
		return nil, wrapQueryError("failed to get employee by email", err)
	}
	return found, nil
}

func (r *EmployeeRepository) FindByFirstAndLastName(ctx context.Context, firstName, lastName string) (*employee.Employee, error) {
	defer r.metrics.ObserveDBQuery("find_by_full_name", time.Now())

	rows, err := sqlitedb.ExecutorFromContext(ctx, r.db).QueryContext(ctx, findEmployeeByFullNameQuery, firstName, lastName)
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

// Save は ID 未採番なら INSERT、採番済みなら UPDATE を実行し、保存後の値を返します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e == nil {
		return nil, errors.New("failed to save employee: employee is nil")
	}

	exec := sqlitedb.ExecutorFromContext(ctx, r.db)
	saved := e.Clone()

	if !e.IsPersisted() {
		defer r.metrics.ObserveDBQuery("save_insert", time.Now())

		res, err := exec.ExecContext(ctx, insertEmployeeQuery, e.FirstName, e.LastName, e.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to save employee: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to save employee: %w", err)
		}
		saved.ID = id
		return saved, nil
	}

	defer r.metrics.ObserveDBQuery("save_update", time.Now())

	res, err := exec.ExecContext(ctx, updateEmployeeQuery, e.FirstName, e.LastName, e.Email, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if affected == 0 {
		return nil, employee.ErrEmployeeNotFound
	}
	return saved, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, e *employee.Employee) error {
	if e == nil {
		return nil
	}
	return r.DeleteByID(ctx, e.ID)
}

// DeleteByID は ID で社員を削除します。対象が無くてもエラーにしません。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	defer r.metrics.ObserveDBQuery("delete_by_id", time.Now())

	if _, err := sqlitedb.ExecutorFromContext(ctx, r.db).ExecContext(ctx, deleteEmployeeByIDQuery, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEmployees(rows *sql.Rows) ([]*employee.Employee, error) {
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
	if errors.Is(err, sql.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
