// Package mocks holds gomock doubles for the profile statistics sources.
package mocks

import (
	context "context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	artist "artlog/internal/artist"
	review "artlog/internal/review"
)

// MockReviewLister is a mock of the ReviewLister interface.
type MockReviewLister struct {
	ctrl     *gomock.Controller
	recorder *MockReviewListerMockRecorder
}

// MockReviewListerMockRecorder is the mock recorder for MockReviewLister.
type MockReviewListerMockRecorder struct {
	mock *MockReviewLister
}

func NewMockReviewLister(ctrl *gomock.Controller) *MockReviewLister {
	mock := &MockReviewLister{ctrl: ctrl}
	mock.recorder = &MockReviewListerMockRecorder{mock}
	return mock
}

func (m *MockReviewLister) EXPECT() *MockReviewListerMockRecorder {
	return m.recorder
}

func (m *MockReviewLister) ListByUser(ctx context.Context, userID string) ([]review.Review, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID)
	ret0, _ := ret[0].([]review.Review)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockReviewListerMockRecorder) ListByUser(ctx, userID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockReviewLister)(nil).ListByUser), ctx, userID)
}

// MockArtistRanker is a mock of the ArtistRanker interface.
type MockArtistRanker struct {
	ctrl     *gomock.Controller
	recorder *MockArtistRankerMockRecorder
}

// MockArtistRankerMockRecorder is the mock recorder for MockArtistRanker.
type MockArtistRankerMockRecorder struct {
	mock *MockArtistRanker
}

func NewMockArtistRanker(ctrl *gomock.Controller) *MockArtistRanker {
	mock := &MockArtistRanker{ctrl: ctrl}
	mock.recorder = &MockArtistRankerMockRecorder{mock}
	return mock
}

func (m *MockArtistRanker) EXPECT() *MockArtistRankerMockRecorder {
	return m.recorder
}

func (m *MockArtistRanker) Counts(ctx context.Context, userID string) (map[string]artist.Aggregate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Counts", ctx, userID)
	ret0, _ := ret[0].(map[string]artist.Aggregate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockArtistRankerMockRecorder) Counts(ctx, userID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Counts", reflect.TypeOf((*MockArtistRanker)(nil).Counts), ctx, userID)
}

func (m *MockArtistRanker) Top(ctx context.Context, userID string, limit int) ([]artist.Ranked, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Top", ctx, userID, limit)
	ret0, _ := ret[0].([]artist.Ranked)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockArtistRankerMockRecorder) Top(ctx, userID, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Top", reflect.TypeOf((*MockArtistRanker)(nil).Top), ctx, userID, limit)
}
