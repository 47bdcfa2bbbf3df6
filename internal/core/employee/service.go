package employee

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	SaveEmployee(ctx context.Context, employee *Employee) (*Employee, error)
	GetAllEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*Employee, error)
	FindEmployeeByName(ctx context.Context, firstName, lastName string) (*Employee, error)
	UpdateEmployee(ctx context.Context, employee *Employee) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
	log  zerolog.Logger
}

// NewService は Service を生成します。tx が nil の場合はトランザクションを張りません。
func NewService(repo Repository, tx TransactionManager, log zerolog.Logger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx, log: log.With().Str("component", "employee_service").Logger()}
}

// SaveEmployee は同じメールアドレスの社員が存在しない場合に限り新規保存します。
//
// 重複チェックと挿入はストレージ既定の分離レベルで実行されるため、
// 同時に同じメールアドレスで作成された場合の重複は防げません。
func (s *Service) SaveEmployee(ctx context.Context, employee *Employee) (*Employee, error) {
	if employee == nil {
		return nil, errors.New("employee: employee is required")
	}

	var saved *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailNotExists(txCtx, employee.Email); err != nil {
			return err
		}

		result, err := s.repo.Save(txCtx, employee)
		if err != nil {
			return err
		}

		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Debug().Int64("employee_id", saved.ID).Msg("employee created")
	return saved, nil
}

// GetAllEmployees は全社員を返します。
func (s *Service) GetAllEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.FindAll(ctx)
}

// GetEmployeeByID は ID で社員を取得します。存在しない場合は ErrEmployeeNotFound を返します。
func (s *Service) GetEmployeeByID(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.FindByID(ctx, id)
}

// FindEmployeeByName は姓名が一致する社員を 1 件返します。
func (s *Service) FindEmployeeByName(ctx context.Context, firstName, lastName string) (*Employee, error) {
	return s.repo.FindByFirstAndLastName(ctx, firstName, lastName)
}

// UpdateEmployee は社員をそのまま保存します。
// メールアドレスの重複チェックと存在確認は行いません。
func (s *Service) UpdateEmployee(ctx context.Context, employee *Employee) (*Employee, error) {
	return s.repo.Save(ctx, employee)
}

// DeleteEmployee は ID で社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if existing != nil {
		s.log.Debug().Str("email", email).Int64("existing_id", existing.ID).Msg("duplicate email rejected")
		return NewConflictError(email)
	}
	return nil
}
