package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/employee-gateway/internal/cache"
	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/upstream"
)

const successStatus = "Successfully processed request."

// fakeGateway is a scriptable domain.EmployeeGateway recording call counts.
type fakeGateway struct {
	employees []domain.Employee
	listErr   error
	listNil   bool // return an envelope without payload

	byID      map[string]domain.Employee
	getErr    error
	getNilFor string // id for which the envelope has no payload

	created   *domain.Employee
	createErr error

	deleteResult *bool
	deleteErr    error

	fetchAllCalls, fetchByIDCalls, createCalls, deleteCalls int
}

func (f *fakeGateway) FetchAll(ctx context.Context) (domain.Envelope[[]domain.Employee], error) {
	f.fetchAllCalls++
	if f.listErr != nil {
		return domain.Envelope[[]domain.Employee]{}, f.listErr
	}
	if f.listNil {
		return domain.Envelope[[]domain.Employee]{Status: successStatus}, nil
	}
	employees := f.employees
	return domain.Envelope[[]domain.Employee]{Data: &employees, Status: successStatus}, nil
}

func (f *fakeGateway) FetchByID(ctx context.Context, id string) (domain.Envelope[domain.Employee], error) {
	f.fetchByIDCalls++
	if f.getErr != nil {
		return domain.Envelope[domain.Employee]{}, f.getErr
	}
	if id == f.getNilFor {
		return domain.Envelope[domain.Employee]{Status: successStatus}, nil
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.Envelope[domain.Employee]{}, domain.ErrNotFound
	}
	return domain.Envelope[domain.Employee]{Data: &e, Status: successStatus}, nil
}

func (f *fakeGateway) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Envelope[domain.Employee], error) {
	f.createCalls++
	if f.createErr != nil {
		return domain.Envelope[domain.Employee]{}, f.createErr
	}
	if f.created == nil {
		return domain.Envelope[domain.Employee]{Status: successStatus}, nil
	}
	return domain.Envelope[domain.Employee]{Data: f.created, Status: successStatus}, nil
}

func (f *fakeGateway) DeleteByName(ctx context.Context, name string) (domain.Envelope[bool], error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return domain.Envelope[bool]{}, f.deleteErr
	}
	return domain.Envelope[bool]{Data: f.deleteResult, Status: successStatus}, nil
}

func intPtr(v int) *int { return &v }

func staff() []domain.Employee {
	return []domain.Employee{
		{ID: "1", Name: "Tiger Nixon", Salary: intPtr(320800)},
		{ID: "2", Name: "Garrett Winters", Salary: intPtr(170750)},
		{ID: "3", Name: "Ashton Cox", Salary: nil},
		{ID: "4", Name: "Cedric Kelly", Salary: intPtr(433060)},
	}
}

func TestListWrapsUpstreamFailure(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("connection refused")}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListFailurePreservesCauseChain(t *testing.T) {
	cause := &upstream.StatusError{
		Method:     "GET",
		URL:        "http://localhost:8112/api/v1/employee",
		StatusCode: 502,
	}
	svc := NewEmployeeService(&fakeGateway{listErr: cause}, nil)

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)

	// the original upstream failure stays reachable through the chain
	var serr *upstream.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 502, serr.StatusCode)
}

func TestListMissingPayloadIsEmpty(t *testing.T) {
	gw := &fakeGateway{listNil: true}
	svc := NewEmployeeService(gw, nil)

	employees, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestListUsesCache(t *testing.T) {
	gw := &fakeGateway{employees: staff()}
	svc := NewEmployeeService(gw, cache.NewMemoryStore())

	ctx := context.Background()
	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.fetchAllCalls)
}

func TestSearchBlankFragmentSkipsUpstream(t *testing.T) {
	gw := &fakeGateway{employees: staff()}
	svc := NewEmployeeService(gw, nil)

	for _, fragment := range []string{"", "   ", "\t\n"} {
		matches, err := svc.SearchByName(context.Background(), fragment)
		require.NoError(t, err)
		assert.Empty(t, matches)
	}
	assert.Equal(t, 0, gw.fetchAllCalls)
}

func TestSearchFiltersCaseInsensitively(t *testing.T) {
	gw := &fakeGateway{employees: append(staff(), domain.Employee{ID: "5", Name: ""})}
	svc := NewEmployeeService(gw, nil)

	matches, err := svc.SearchByName(context.Background(), "tIgEr")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Tiger Nixon", matches[0].Name)

	matches, err = svc.SearchByName(context.Background(), "o")
	require.NoError(t, err)
	// a nameless employee never matches, whatever the fragment
	for _, m := range matches {
		assert.NotEmpty(t, m.Name)
	}
}

func TestSearchNoMatches(t *testing.T) {
	gw := &fakeGateway{employees: staff()}
	svc := NewEmployeeService(gw, nil)

	matches, err := svc.SearchByName(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestGetByIDBlank(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewEmployeeService(gw, nil)

	for _, id := range []string{"", "   "} {
		_, err := svc.GetByID(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 0, gw.fetchByIDCalls)
}

func TestGetByIDEmptyPayloadIsNotFound(t *testing.T) {
	gw := &fakeGateway{getNilFor: "ghost"}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
	// not-found is surfaced unwrapped, never as a service failure
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetByIDUpstreamNotFound(t *testing.T) {
	gw := &fakeGateway{byID: map[string]domain.Employee{}}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetByIDTransportFailure(t *testing.T) {
	gw := &fakeGateway{getErr: errors.New("connection reset")}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.GetByID(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetByIDUsesCache(t *testing.T) {
	gw := &fakeGateway{byID: map[string]domain.Employee{"1": staff()[0]}}
	svc := NewEmployeeService(gw, cache.NewMemoryStore())

	ctx := context.Background()
	first, err := svc.GetByID(ctx, "1")
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.fetchByIDCalls)
}

func TestHighestSalary(t *testing.T) {
	tests := []struct {
		name      string
		employees []domain.Employee
		want      int
	}{
		{"empty list", []domain.Employee{}, 0},
		{"all salaries absent", []domain.Employee{{ID: "1"}, {ID: "2"}}, 0},
		{
			"absent salaries ignored",
			[]domain.Employee{
				{ID: "1"}, {ID: "2", Salary: intPtr(50000)},
				{ID: "3"}, {ID: "4", Salary: intPtr(75000)},
			},
			75000,
		},
		{"full staff", staff(), 433060},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmployeeService(&fakeGateway{employees: tt.employees}, nil)
			got, err := svc.HighestSalary(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopTenEarnerNames(t *testing.T) {
	employees := make([]domain.Employee, 0, 13)
	for i := 0; i < 12; i++ {
		employees = append(employees, domain.Employee{
			ID:     fmt.Sprintf("%d", i),
			Name:   fmt.Sprintf("Employee %d", i),
			Salary: intPtr(120000 - i*1000), // strictly decreasing
		})
	}
	employees = append(employees, domain.Employee{ID: "unpaid", Name: "No Salary"})

	svc := NewEmployeeService(&fakeGateway{employees: employees}, nil)
	names, err := svc.TopTenEarnerNames(context.Background())
	require.NoError(t, err)

	require.Len(t, names, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("Employee %d", i), names[i])
	}
	assert.NotContains(t, names, "No Salary")
}

func TestTopTenEarnerNamesTiesKeepListOrder(t *testing.T) {
	employees := []domain.Employee{
		{ID: "1", Name: "First", Salary: intPtr(100)},
		{ID: "2", Name: "Second", Salary: intPtr(100)},
		{ID: "3", Name: "Richest", Salary: intPtr(200)},
		{ID: "4", Name: "Third", Salary: intPtr(100)},
	}

	svc := NewEmployeeService(&fakeGateway{employees: employees}, nil)
	names, err := svc.TopTenEarnerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Richest", "First", "Second", "Third"}, names)
}

func TestCreateNilInput(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.Create(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, gw.createCalls)
}

func TestCreateNoDataReturned(t *testing.T) {
	gw := &fakeGateway{created: nil}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{
		Name: "John Doe", Salary: 75000, Age: 30, Title: "Software Engineer",
	})
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "no data returned")
	// the creation not completing observably is not a not-found
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDoesNotRewrapServiceFailure(t *testing.T) {
	cause := serviceFailure("failed earlier", errors.New("boom"))
	gw := &fakeGateway{createErr: cause}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{
		Name: "John Doe", Salary: 75000, Age: 30, Title: "Software Engineer",
	})
	assert.Equal(t, cause, err)
}

func TestCreateInvalidatesListCache(t *testing.T) {
	created := staff()[0]
	gw := &fakeGateway{employees: staff(), created: &created}
	svc := NewEmployeeService(gw, cache.NewMemoryStore())

	ctx := context.Background()
	_, err := svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateEmployeeRequest{
		Name: "John Doe", Salary: 75000, Age: 30, Title: "Software Engineer",
	})
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.fetchAllCalls)
}

func TestDeleteByIDBlank(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.DeleteByID(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, gw.deleteCalls)
}

func TestDeleteByIDNotFoundShortCircuits(t *testing.T) {
	gw := &fakeGateway{byID: map[string]domain.Employee{}}
	svc := NewEmployeeService(gw, nil)

	_, err := svc.DeleteByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	// resolution failed, so the delete call never happens
	assert.Equal(t, 0, gw.deleteCalls)
}

func TestDeleteByIDUnconfirmed(t *testing.T) {
	falseResult := false
	tests := []struct {
		name   string
		result *bool
	}{
		{"false result", &falseResult},
		{"absent result", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{
				byID:         map[string]domain.Employee{"1": staff()[0]},
				deleteResult: tt.result,
			}
			svc := NewEmployeeService(gw, nil)

			_, err := svc.DeleteByID(context.Background(), "1")
			require.ErrorIs(t, err, domain.ErrUnavailable)
			assert.Equal(t, 1, gw.deleteCalls)
		})
	}
}

func TestDeleteByIDSuccess(t *testing.T) {
	confirmed := true
	gw := &fakeGateway{
		employees:    staff(),
		byID:         map[string]domain.Employee{"1": staff()[0]},
		deleteResult: &confirmed,
	}
	store := cache.NewMemoryStore()
	svc := NewEmployeeService(gw, store)

	ctx := context.Background()
	// warm both caches
	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, "1")
	require.NoError(t, err)

	name, err := svc.DeleteByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Tiger Nixon", name)

	// both the list and the id entry were invalidated
	_, err = store.Get(ctx, listCacheKey)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	_, err = store.Get(ctx, employeeCacheKey("1"))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
