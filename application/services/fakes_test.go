package services

import (
	"context"
	"time"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
)

// The fakes below are scripted by assigning per-method functions. A nil
// function behaves as a successful no-op so each test only scripts the calls
// it cares about; argument capture happens through closures.

type fakeHangoutRepo struct {
	createFn              func(ctx context.Context, hangout *entities.Hangout) error
	findByIDFn            func(ctx context.Context, hangoutID string) (*entities.Hangout, error)
	findWithAttendanceFn  func(ctx context.Context, hangoutID string) (*entities.Hangout, []*entities.InterestLevel, error)
	findPointersFn        func(ctx context.Context, groupID string) ([]*entities.HangoutPointer, error)
	updateFn              func(ctx context.Context, hangout *entities.Hangout) error
	deleteFn              func(ctx context.Context, hangoutID string) error
	savePointerFn         func(ctx context.Context, pointer *entities.HangoutPointer) error
	deletePointerFn       func(ctx context.Context, groupID, hangoutID string) error
	saveInterestFn        func(ctx context.Context, interest *entities.InterestLevel) (*entities.InterestLevel, error)
	deleteInterestFn      func(ctx context.Context, eventID, userID string) error
	listInterestFn        func(ctx context.Context, eventID string) ([]*entities.InterestLevel, error)
	setReminderIfNullFn   func(ctx context.Context, eventID string, sentAt time.Time) (bool, error)
	updateScheduleNameFn  func(ctx context.Context, eventID, scheduleName string) error
	clearReminderSentAtFn func(ctx context.Context, eventID string) error
}

var _ ports.HangoutRepository = (*fakeHangoutRepo)(nil)

func (f *fakeHangoutRepo) Create(ctx context.Context, hangout *entities.Hangout) error {
	if f.createFn != nil {
		return f.createFn(ctx, hangout)
	}
	return nil
}

func (f *fakeHangoutRepo) FindByID(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, hangoutID)
	}
	return nil, nil
}

func (f *fakeHangoutRepo) FindWithAttendance(ctx context.Context, hangoutID string) (*entities.Hangout, []*entities.InterestLevel, error) {
	if f.findWithAttendanceFn != nil {
		return f.findWithAttendanceFn(ctx, hangoutID)
	}
	return nil, nil, nil
}

func (f *fakeHangoutRepo) FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.HangoutPointer, error) {
	if f.findPointersFn != nil {
		return f.findPointersFn(ctx, groupID)
	}
	return nil, nil
}

func (f *fakeHangoutRepo) Update(ctx context.Context, hangout *entities.Hangout) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, hangout)
	}
	return nil
}

func (f *fakeHangoutRepo) Delete(ctx context.Context, hangoutID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, hangoutID)
	}
	return nil
}

func (f *fakeHangoutRepo) SavePointer(ctx context.Context, pointer *entities.HangoutPointer) error {
	if f.savePointerFn != nil {
		return f.savePointerFn(ctx, pointer)
	}
	return nil
}

func (f *fakeHangoutRepo) DeletePointer(ctx context.Context, groupID, hangoutID string) error {
	if f.deletePointerFn != nil {
		return f.deletePointerFn(ctx, groupID, hangoutID)
	}
	return nil
}

func (f *fakeHangoutRepo) SaveInterestLevel(ctx context.Context, interest *entities.InterestLevel) (*entities.InterestLevel, error) {
	if f.saveInterestFn != nil {
		return f.saveInterestFn(ctx, interest)
	}
	return interest, nil
}

func (f *fakeHangoutRepo) DeleteInterestLevel(ctx context.Context, eventID, userID string) error {
	if f.deleteInterestFn != nil {
		return f.deleteInterestFn(ctx, eventID, userID)
	}
	return nil
}

func (f *fakeHangoutRepo) ListInterestLevels(ctx context.Context, eventID string) ([]*entities.InterestLevel, error) {
	if f.listInterestFn != nil {
		return f.listInterestFn(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeHangoutRepo) SetReminderSentAtIfNull(ctx context.Context, eventID string, sentAt time.Time) (bool, error) {
	if f.setReminderIfNullFn != nil {
		return f.setReminderIfNullFn(ctx, eventID, sentAt)
	}
	return true, nil
}

func (f *fakeHangoutRepo) UpdateReminderScheduleName(ctx context.Context, eventID, scheduleName string) error {
	if f.updateScheduleNameFn != nil {
		return f.updateScheduleNameFn(ctx, eventID, scheduleName)
	}
	return nil
}

func (f *fakeHangoutRepo) ClearReminderSentAt(ctx context.Context, eventID string) error {
	if f.clearReminderSentAtFn != nil {
		return f.clearReminderSentAtFn(ctx, eventID)
	}
	return nil
}

type fakeSeriesRepo struct {
	createSeriesFn func(ctx context.Context, series *entities.EventSeries, existing *entities.Hangout, existingPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error
	addPartFn      func(ctx context.Context, seriesID string, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error
	removePartFn   func(ctx context.Context, series *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error
	findByIDFn     func(ctx context.Context, seriesID string) (*entities.EventSeries, error)
	findPointersFn func(ctx context.Context, groupID string) ([]*entities.SeriesPointer, error)
}

var _ ports.EventSeriesRepository = (*fakeSeriesRepo)(nil)

func (f *fakeSeriesRepo) CreateSeriesWithNewPart(ctx context.Context, series *entities.EventSeries, existing *entities.Hangout, existingPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
	if f.createSeriesFn != nil {
		return f.createSeriesFn(ctx, series, existing, existingPointers, newHangout, newPointers, seriesPointers)
	}
	return nil
}

func (f *fakeSeriesRepo) AddPartToExistingSeries(ctx context.Context, seriesID string, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
	if f.addPartFn != nil {
		return f.addPartFn(ctx, seriesID, newHangout, newPointers, seriesPointers)
	}
	return nil
}

func (f *fakeSeriesRepo) RemovePartFromSeries(ctx context.Context, series *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error {
	if f.removePartFn != nil {
		return f.removePartFn(ctx, series, hangout, pointers)
	}
	return nil
}

func (f *fakeSeriesRepo) FindByID(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, seriesID)
	}
	return nil, nil
}

func (f *fakeSeriesRepo) FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.SeriesPointer, error) {
	if f.findPointersFn != nil {
		return f.findPointersFn(ctx, groupID)
	}
	return nil, nil
}

type fakeIdeaListRepo struct {
	saveListFn           func(ctx context.Context, list *entities.IdeaList) error
	findListFn           func(ctx context.Context, groupID, listID string) (*entities.IdeaList, error)
	deleteListFn         func(ctx context.Context, groupID, listID string) error
	existsFn             func(ctx context.Context, groupID, listID string) bool
	saveMemberFn         func(ctx context.Context, member *entities.IdeaListMember) error
	findMemberFn         func(ctx context.Context, groupID, listID, ideaID string) (*entities.IdeaListMember, error)
	deleteMemberFn       func(ctx context.Context, groupID, listID, ideaID string) error
	findAllWithMembersFn func(ctx context.Context, groupID string) ([]*entities.IdeaList, error)
	findWithMembersFn    func(ctx context.Context, groupID, listID string) (*entities.IdeaList, error)
	findMembersFn        func(ctx context.Context, groupID, listID string) ([]*entities.IdeaListMember, error)
	deleteWithMembersFn  func(ctx context.Context, groupID, listID string) error
}

var _ ports.IdeaListRepository = (*fakeIdeaListRepo)(nil)

func (f *fakeIdeaListRepo) SaveIdeaList(ctx context.Context, list *entities.IdeaList) error {
	if f.saveListFn != nil {
		return f.saveListFn(ctx, list)
	}
	return nil
}

func (f *fakeIdeaListRepo) FindIdeaListByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error) {
	if f.findListFn != nil {
		return f.findListFn(ctx, groupID, listID)
	}
	return nil, nil
}

func (f *fakeIdeaListRepo) DeleteIdeaList(ctx context.Context, groupID, listID string) error {
	if f.deleteListFn != nil {
		return f.deleteListFn(ctx, groupID, listID)
	}
	return nil
}

func (f *fakeIdeaListRepo) IdeaListExists(ctx context.Context, groupID, listID string) bool {
	if f.existsFn != nil {
		return f.existsFn(ctx, groupID, listID)
	}
	return true
}

func (f *fakeIdeaListRepo) SaveIdeaListMember(ctx context.Context, member *entities.IdeaListMember) error {
	if f.saveMemberFn != nil {
		return f.saveMemberFn(ctx, member)
	}
	return nil
}

func (f *fakeIdeaListRepo) FindIdeaListMemberByID(ctx context.Context, groupID, listID, ideaID string) (*entities.IdeaListMember, error) {
	if f.findMemberFn != nil {
		return f.findMemberFn(ctx, groupID, listID, ideaID)
	}
	return nil, nil
}

func (f *fakeIdeaListRepo) DeleteIdeaListMember(ctx context.Context, groupID, listID, ideaID string) error {
	if f.deleteMemberFn != nil {
		return f.deleteMemberFn(ctx, groupID, listID, ideaID)
	}
	return nil
}

func (f *fakeIdeaListRepo) FindAllWithMembersByGroupID(ctx context.Context, groupID string) ([]*entities.IdeaList, error) {
	if f.findAllWithMembersFn != nil {
		return f.findAllWithMembersFn(ctx, groupID)
	}
	return nil, nil
}

func (f *fakeIdeaListRepo) FindWithMembersByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error) {
	if f.findWithMembersFn != nil {
		return f.findWithMembersFn(ctx, groupID, listID)
	}
	return nil, nil
}

func (f *fakeIdeaListRepo) FindMembersByListID(ctx context.Context, groupID, listID string) ([]*entities.IdeaListMember, error) {
	if f.findMembersFn != nil {
		return f.findMembersFn(ctx, groupID, listID)
	}
	return nil, nil
}

func (f *fakeIdeaListRepo) DeleteWithAllMembers(ctx context.Context, groupID, listID string) error {
	if f.deleteWithMembersFn != nil {
		return f.deleteWithMembersFn(ctx, groupID, listID)
	}
	return nil
}

type fakeInviteRepo struct {
	saveFn       func(ctx context.Context, code *entities.InviteCode) error
	findByIDFn   func(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error)
	findByCodeFn func(ctx context.Context, code string) (*entities.InviteCode, error)
	findAllFn    func(ctx context.Context, groupID string) ([]*entities.InviteCode, error)
	findActiveFn func(ctx context.Context, groupID string) (*entities.InviteCode, error)
	deleteFn     func(ctx context.Context, inviteCodeID string) error
	codeExistsFn func(ctx context.Context, code string) (bool, error)
}

var _ ports.InviteCodeRepository = (*fakeInviteRepo)(nil)

func (f *fakeInviteRepo) Save(ctx context.Context, code *entities.InviteCode) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, code)
	}
	return nil
}

func (f *fakeInviteRepo) FindByID(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, inviteCodeID)
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindByCode(ctx context.Context, code string) (*entities.InviteCode, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindAllByGroupID(ctx context.Context, groupID string) ([]*entities.InviteCode, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, groupID)
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindActiveCodeForGroup(ctx context.Context, groupID string) (*entities.InviteCode, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, groupID)
	}
	return nil, nil
}

func (f *fakeInviteRepo) Delete(ctx context.Context, inviteCodeID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, inviteCodeID)
	}
	return nil
}

func (f *fakeInviteRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.codeExistsFn != nil {
		return f.codeExistsFn(ctx, code)
	}
	return false, nil
}

// fakePublisher records every event it is handed, in order, flattening
// batches so assertions can address the full stream.
type fakePublisher struct {
	publishFn      func(ctx context.Context, event events.DomainEvent) error
	publishBatchFn func(ctx context.Context, batch []events.DomainEvent) error
	published      []events.DomainEvent
	batchCalls     int
}

var _ ports.EventPublisher = (*fakePublisher)(nil)

func (f *fakePublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	if f.publishFn != nil {
		if err := f.publishFn(ctx, event); err != nil {
			return err
		}
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	f.batchCalls++
	if f.publishBatchFn != nil {
		if err := f.publishBatchFn(ctx, batch); err != nil {
			return err
		}
	}
	f.published = append(f.published, batch...)
	return nil
}

// eventTypes projects the recorded stream to its type strings.
func (f *fakePublisher) eventTypes() []string {
	types := make([]string, 0, len(f.published))
	for _, event := range f.published {
		types = append(types, event.GetEventType())
	}
	return types
}
