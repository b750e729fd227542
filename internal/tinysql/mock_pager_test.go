package tinysql

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPager is a mock type for the Pager type
type MockPager struct {
	mock.Mock
}

// GetPage provides a mock function with given fields: ctx, pageIdx
func (_m *MockPager) GetPage(ctx context.Context, pageIdx PageIndex) ([]byte, error) {
	ret := _m.Called(ctx, pageIdx)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, PageIndex) []byte); ok {
		r0 = rf(ctx, pageIdx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, PageIndex) error); ok {
		r1 = rf(ctx, pageIdx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UnusedPageIndex provides a mock function with no fields
func (_m *MockPager) UnusedPageIndex() PageIndex {
	ret := _m.Called()
	return ret.Get(0).(PageIndex)
}

// PersistedPages provides a mock function with no fields
func (_m *MockPager) PersistedPages() uint32 {
	ret := _m.Called()
	return ret.Get(0).(uint32)
}

// TotalPages provides a mock function with no fields
func (_m *MockPager) TotalPages() uint32 {
	ret := _m.Called()
	return ret.Get(0).(uint32)
}

// MaxPages provides a mock function with no fields
func (_m *MockPager) MaxPages() uint32 {
	ret := _m.Called()
	return ret.Get(0).(uint32)
}

// Flush provides a mock function with given fields: ctx, pageIdx
func (_m *MockPager) Flush(ctx context.Context, pageIdx PageIndex) error {
	ret := _m.Called(ctx, pageIdx)
	return ret.Error(0)
}

// Close provides a mock function with given fields: ctx
func (_m *MockPager) Close(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
