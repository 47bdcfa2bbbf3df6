package employee

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"
)

type fakeEmployeeRepo struct {
	employees map[int64]*Employee
	sequence  int64

	saveCalls   int
	deletedIDs  []int64
	findAllErr  error
	findMailErr error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[int64]*Employee)}
}

func (r *fakeEmployeeRepo) FindAll(_ context.Context) ([]*Employee, error) {
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	ids := make([]int64, 0, len(r.employees))
	for id := range r.employees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*Employee, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.employees[id].Clone())
	}
	return result, nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id int64) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return emp.Clone(), nil
}

func (r *fakeEmployeeRepo) FindByEmail(_ context.Context, email string) (*Employee, error) {
	if r.findMailErr != nil {
		return nil, r.findMailErr
	}
	for _, emp := range r.employees {
		if emp.Email == email {
			return emp.Clone(), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) FindByFirstAndLastName(_ context.Context, firstName, lastName string) (*Employee, error) {
	var found *Employee
	for _, emp := range r.employees {
		if emp.FirstName == firstName && emp.LastName == lastName {
			if found != nil {
				return nil, ErrNonUniqueResult
			}
			found = emp.Clone()
		}
	}
	if found == nil {
		return nil, ErrEmployeeNotFound
	}
	return found, nil
}

func (r *fakeEmployeeRepo) Save(_ context.Context, e *Employee) (*Employee, error) {
	r.saveCalls++
	clone := e.Clone()
	if clone.ID == 0 {
		r.sequence++
		clone.ID = r.sequence
	} else if _, ok := r.employees[clone.ID]; !ok {
		return nil, ErrEmployeeNotFound
	}
	r.employees[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, e *Employee) error {
	return r.DeleteByID(ctx, e.ID)
}

func (r *fakeEmployeeRepo) DeleteByID(_ context.Context, id int64) error {
	r.deletedIDs = append(r.deletedIDs, id)
	delete(r.employees, id)
	return nil
}

type recordingTxManager struct {
	readWrite int
}

func (m *recordingTxManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (m *recordingTxManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	m.readWrite++
	return fn(ctx)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, nil, zerolog.Nop())
}

func TestService_SaveEmployee_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)

	saved, err := svc.SaveEmployee(context.Background(), &Employee{
		FirstName: "Ramesh",
		LastName:  "Fadatare",
		Email:     "ramesh@gmail.com",
	})
	if err != nil {
		t.Fatalf("SaveEmployee returned error: %v", err)
	}

	if saved.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", saved.ID)
	}
	if saved.FirstName != "Ramesh" || saved.LastName != "Fadatare" || saved.Email != "ramesh@gmail.com" {
		t.Fatalf("unexpected employee: %+v", saved)
	}
}

func TestService_SaveEmployee_DistinctEmailsGetDistinctIDs(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Tony", LastName: "Stark", Email: "tony@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.SaveEmployee(ctx, &Employee{FirstName: "John", LastName: "Cena", Email: "john@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both got %d", first.ID)
	}
}

func TestService_SaveEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	callsBefore := repo.saveCalls

	_, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ram", LastName: "Jadhav", Email: "ramesh@gmail.com"})
	if !errors.Is(err, ErrEmployeeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeAlreadyExists, got %v", err)
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if err.Error() != "Employee already exists with given email: ramesh@gmail.com" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	if repo.saveCalls != callsBefore {
		t.Fatalf("save must not be called on conflict")
	}

	count := 0
	for _, emp := range repo.employees {
		if emp.Email == "ramesh@gmail.com" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one row for email, got %d", count)
	}
}

func TestService_SaveEmployee_EmailMatchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Kakar", Email: "Ramesh@kakar.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Kakar", Email: "ramesh@kakar.com"}); err != nil {
		t.Fatalf("expected different-case email to be accepted, got %v", err)
	}
}

func TestService_SaveEmployee_LookupErrorPropagates(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	storageErr := errors.New("connection refused")
	repo.findMailErr = storageErr
	svc := newTestService(repo)

	_, err := svc.SaveEmployee(context.Background(), &Employee{Email: "x@example.com"})
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("save must not be called when lookup fails")
	}
}

func TestService_SaveEmployee_RunsInReadWriteTransaction(t *testing.T) {
	t.Parallel()

	tx := &recordingTxManager{}
	svc := NewService(newFakeEmployeeRepo(), tx, zerolog.Nop())

	if _, err := svc.SaveEmployee(context.Background(), &Employee{Email: "tx@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.readWrite != 1 {
		t.Fatalf("expected one read-write transaction, got %d", tx.readWrite)
	}
}

func TestService_GetAllEmployees(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	empty, err := svc.GetAllEmployees(ctx)
	if err != nil {
		t.Fatalf("GetAllEmployees returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}

	for _, email := range []string{"ramesh@gmail.com", "tony@gmail.com", "john@gmail.com"} {
		if _, err := svc.SaveEmployee(ctx, &Employee{Email: email}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := svc.GetAllEmployees(ctx)
	if err != nil {
		t.Fatalf("GetAllEmployees returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(all))
	}
}

func TestService_GetEmployeeByID(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	saved, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.GetEmployeeByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetEmployeeByID returned error: %v", err)
	}
	if *found != *saved {
		t.Fatalf("expected %+v, got %+v", saved, found)
	}

	if _, err := svc.GetEmployeeByID(ctx, 999); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_UpdateEmployee_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	saved, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved.FirstName = "Ram"
	saved.Email = "ram@gmail.com"

	updated, err := svc.UpdateEmployee(ctx, saved)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if updated.FirstName != "Ram" || updated.Email != "ram@gmail.com" {
		t.Fatalf("update not applied: %+v", updated)
	}

	fetched, err := svc.GetEmployeeByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetEmployeeByID returned error: %v", err)
	}
	if *fetched != *updated {
		t.Fatalf("expected %+v, got %+v", updated, fetched)
	}
}

func TestService_UpdateEmployee_AllowsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.SaveEmployee(ctx, &Employee{Email: "first@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.SaveEmployee(ctx, &Employee{Email: "second@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second.Email = "first@example.com"
	if _, err := svc.UpdateEmployee(ctx, second); err != nil {
		t.Fatalf("update path must not re-check email uniqueness, got %v", err)
	}
}

func TestService_DeleteEmployee(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	saved, err := svc.SaveEmployee(ctx, &Employee{Email: "delete@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteEmployee(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != saved.ID {
		t.Fatalf("expected DeleteByID(%d) once, got %v", saved.ID, repo.deletedIDs)
	}

	if _, err := svc.GetEmployeeByID(ctx, saved.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound after delete, got %v", err)
	}
}

func TestService_FindEmployeeByName(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	saved, err := svc.SaveEmployee(ctx, &Employee{FirstName: "Ramesh", LastName: "Kakar", Email: "Ramesh@kakar.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.FindEmployeeByName(ctx, "Ramesh", "Kakar")
	if err != nil {
		t.Fatalf("FindEmployeeByName returned error: %v", err)
	}
	if found.ID != saved.ID {
		t.Fatalf("expected id %d, got %d", saved.ID, found.ID)
	}

	if _, err := svc.FindEmployeeByName(ctx, "Nobody", "Here"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestConflictError_Message(t *testing.T) {
	t.Parallel()

	err := NewConflictError("ramesh@gmail.com")
	if err.Error() != "Employee already exists with given email: ramesh@gmail.com" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrEmployeeAlreadyExists) {
		t.Fatal("expected ConflictError to match ErrEmployeeAlreadyExists")
	}
	if errors.Is(err, ErrEmployeeNotFound) {
		t.Fatal("ConflictError must not match ErrEmployeeNotFound")
	}
}
