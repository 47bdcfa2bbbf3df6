package employee

import (
	"errors"
	"fmt"
)

var (
	// ErrEmployeeNotFound は社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee: not found")
	// ErrEmployeeAlreadyExists は同じメールアドレスの社員が既に存在する場合に返却されます。
	ErrEmployeeAlreadyExists = errors.New("employee: already exists")
	// ErrNonUniqueResult は単一結果を期待する検索で複数件ヒットした場合に返却されます。
	ErrNonUniqueResult = errors.New("employee: query did not return a unique result")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("employee: invalid id")
)

// ConflictError はメールアドレス重複による作成拒否を表します。
type ConflictError struct {
	Email string
}

// NewConflictError は ConflictError を生成します。
func NewConflictError(email string) *ConflictError {
	return &ConflictError{Email: email}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Employee already exists with given email: %s", e.Email)
}

// Is は errors.Is(err, ErrEmployeeAlreadyExists) を成立させます。
func (e *ConflictError) Is(target error) bool {
	return target == ErrEmployeeAlreadyExists
}
