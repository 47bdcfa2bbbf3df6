package employee

// Employee は社員エンティティです。
// ID は永続化されるまでゼロ値で、ストレージが採番します。
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// IsPersisted は ID が採番済みかどうかを返します。
func (e *Employee) IsPersisted() bool {
	return e != nil && e.ID > 0
}

// Clone は Employee のコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	copy := *e
	return &copy
}
