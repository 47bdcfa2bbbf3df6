package employee

import "context"

// Repository は社員永続化の抽象です。
//
// 見つからない場合の FindXxx は ErrEmployeeNotFound を返します。
// 削除系は対象行が存在しなくてもエラーにしません。
type Repository interface {
	FindAll(ctx context.Context) ([]*Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByFirstAndLastName(ctx context.Context, firstName, lastName string) (*Employee, error)
	// Save は ID 未採番なら挿入、採番済みなら更新し、保存後の値を返します。
	Save(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, employee *Employee) error
	DeleteByID(ctx context.Context, id int64) error
}
