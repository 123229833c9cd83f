package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
)

type readFixture struct {
	receiptRepo *MockReceiptRepository
	messageRepo *MockMessageRepository
	groupRepo   *MockGroupRepository
	channelRepo *MockChannelRepository
	userRepo    *MockUserRepository
	pusher      *recordingPusher
	svc         ReadService
}

func newReadFixture() *readFixture {
	f := &readFixture{
		receiptRepo: new(MockReceiptRepository),
		messageRepo: new(MockMessageRepository),
		groupRepo:   new(MockGroupRepository),
		channelRepo: new(MockChannelRepository),
		userRepo:    new(MockUserRepository),
		pusher:      &recordingPusher{},
	}
	authz := NewAuthzService(f.userRepo, f.groupRepo, f.channelRepo, 5*time.Minute)
	f.svc = NewReadService(f.receiptRepo, f.messageRepo, authz, f.pusher)
	return f
}

func TestMarkRead_PrivateAdvanceNotifiesPeer(t *testing.T) {
	f := newReadFixture()
	f.userRepo.On("IsActive", uint64(2)).Return(true, nil)
	f.messageRepo.On("FindByID", uint64(10)).Return(privateMessage(10, 1, 2), nil)
	f.receiptRepo.On("AdvanceMarker", "p:1:2", uint64(2), uint64(10)).Return(uint64(4), true, nil)
	f.messageRepo.On("IDsInRange", mock.Anything, uint64(2), uint64(4), uint64(10)).
		Return([]uint64{5, 7, 10}, nil)
	f.receiptRepo.On("RecordReceipts", uint64(2), []uint64{5, 7, 10}).Return(nil)

	err := f.svc.MarkRead(2, &domain.MarkReadRequest{
		Destination:   domain.Destination{ReceiverID: uintPtr(1)},
		UpToMessageID: 10,
	})

	assert.NoError(t, err)
	events := f.pusher.pushedTo(1)
	assert.Len(t, events, 1)
	assert.Equal(t, domain.EventRead, events[0].Type)
	payload := events[0].Payload.(*domain.ReadPayload)
	assert.Equal(t, uint64(10), payload.UpToMessageID)
	assert.Equal(t, uint64(2), payload.ReaderID)
	f.receiptRepo.AssertExpectations(t)
}

func TestMarkRead_StaleWatermarkIsNoOp(t *testing.T) {
	f := newReadFixture()
	f.userRepo.On("IsActive", uint64(2)).Return(true, nil)
	f.messageRepo.On("FindByID", uint64(5)).Return(privateMessage(5, 1, 2), nil)
	f.receiptRepo.On("AdvanceMarker", "p:1:2", uint64(2), uint64(5)).Return(uint64(10), false, nil)

	err := f.svc.MarkRead(2, &domain.MarkReadRequest{
		Destination:   domain.Destination{ReceiverID: uintPtr(1)},
		UpToMessageID: 5,
	})

	// Behind the current watermark: success, but nothing recorded or pushed.
	assert.NoError(t, err)
	f.receiptRepo.AssertNotCalled(t, "RecordReceipts", mock.Anything, mock.Anything)
	assert.Empty(t, f.pusher.pushes)
}

func TestMarkRead_BoundaryOutsideConversation(t *testing.T) {
	f := newReadFixture()
	f.userRepo.On("IsActive", uint64(2)).Return(true, nil)
	f.messageRepo.On("FindByID", uint64(10)).
		Return(&domain.Message{ID: 10, SenderID: 3, GroupID: uintPtr(7)}, nil)

	err := f.svc.MarkRead(2, &domain.MarkReadRequest{
		Destination:   domain.Destination{ReceiverID: uintPtr(1)},
		UpToMessageID: 10,
	})

	assert.ErrorIs(t, err, common.ErrValidation)
	f.receiptRepo.AssertNotCalled(t, "AdvanceMarker", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_NonMemberDenied(t *testing.T) {
	f := newReadFixture()
	f.groupRepo.On("IsMember", uint64(7), uint64(5)).Return(false, nil)

	err := f.svc.MarkRead(5, &domain.MarkReadRequest{
		Destination:   domain.Destination{GroupID: uintPtr(7)},
		UpToMessageID: 10,
	})

	assert.ErrorIs(t, err, common.ErrPermission)
	f.receiptRepo.AssertNotCalled(t, "AdvanceMarker", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_GroupAggregatesReaderCount(t *testing.T) {
	f := newReadFixture()
	f.groupRepo.On("IsMember", uint64(7), uint64(2)).Return(true, nil)
	f.messageRepo.On("FindByID", uint64(10)).
		Return(&domain.Message{ID: 10, SenderID: 3, GroupID: uintPtr(7)}, nil)
	f.receiptRepo.On("AdvanceMarker", "g:7", uint64(2), uint64(10)).Return(uint64(0), true, nil)
	f.messageRepo.On("IDsInRange", mock.Anything, uint64(2), uint64(0), uint64(10)).
		Return([]uint64{9, 10}, nil)
	f.receiptRepo.On("RecordReceipts", uint64(2), []uint64{9, 10}).Return(nil)
	f.receiptRepo.On("ReadersAt", "g:7", uint64(10)).Return(int64(2), nil)
	f.messageRepo.On("SendersInRange", mock.Anything, uint64(2), uint64(0), uint64(10)).
		Return([]uint64{3}, nil)

	err := f.svc.MarkRead(2, &domain.MarkReadRequest{
		Destination:   domain.Destination{GroupID: uintPtr(7)},
		UpToMessageID: 10,
	})

	assert.NoError(t, err)
	events := f.pusher.pushedTo(3)
	assert.Len(t, events, 1)
	payload := events[0].Payload.(*domain.ReadPayload)
	assert.Equal(t, int64(2), payload.ReaderCount)
	assert.Zero(t, payload.ReaderID)
}
