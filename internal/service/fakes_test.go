package service

import (
	"sort"
	"time"

	"github.com/studyhub/enemprep/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They return copies, like a real DB round-trip
// would, so tests catch accidental aliasing.

type fakeExamRepo struct {
	exams  map[uint]*model.Exam
	nextID uint
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: map[uint]*model.Exam{}, nextID: 1}
}

func (r *fakeExamRepo) Create(exam *model.Exam) error {
	exam.ID = r.nextID
	r.nextID++
	for i := range exam.ExamQuestions {
		exam.ExamQuestions[i].ID = r.nextID
		exam.ExamQuestions[i].Question.ID = r.nextID
		exam.ExamQuestions[i].QuestionID = r.nextID
		exam.ExamQuestions[i].ExamID = exam.ID
		r.nextID++
	}
	cp := *exam
	r.exams[exam.ID] = &cp
	return nil
}

func (r *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *exam
	cp.ExamQuestions = nil
	return &cp, nil
}

func (r *fakeExamRepo) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *exam
	cp.ExamQuestions = append([]model.ExamQuestion(nil), exam.ExamQuestions...)
	sort.SliceStable(cp.ExamQuestions, func(i, j int) bool {
		return cp.ExamQuestions[i].Position < cp.ExamQuestions[j].Position
	})
	return &cp, nil
}

func (r *fakeExamRepo) FindAllWithQuestionCount() ([]struct {
	model.Exam
	QuestionCount int
}, error) {
	var out []struct {
		model.Exam
		QuestionCount int
	}
	for _, exam := range r.exams {
		entry := struct {
			model.Exam
			QuestionCount int
		}{Exam: *exam, QuestionCount: len(exam.ExamQuestions)}
		entry.Exam.ExamQuestions = nil
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeExamRepo) Update(exam *model.Exam) error {
	stored, ok := r.exams[exam.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	questions := stored.ExamQuestions
	cp := *exam
	cp.ExamQuestions = questions
	r.exams[exam.ID] = &cp
	return nil
}

func (r *fakeExamRepo) Delete(id uint) error {
	delete(r.exams, id)
	return nil
}

type fakeAttemptRepo struct {
	attempts map[uint]*model.ExamAttempt
	nextID   uint
	// beforeComplete, when set, runs inside CompleteInProgress before the
	// status check. Lets tests interleave a concurrent submit.
	beforeComplete func()
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: map[uint]*model.ExamAttempt{}, nextID: 1}
}

func copyAttempt(a *model.ExamAttempt) *model.ExamAttempt {
	cp := *a
	cp.Answers = map[uint]string{}
	for k, v := range a.Answers {
		cp.Answers[k] = v
	}
	return &cp
}

func (r *fakeAttemptRepo) Create(attempt *model.ExamAttempt) error {
	attempt.ID = r.nextID
	r.nextID++
	r.attempts[attempt.ID] = copyAttempt(attempt)
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.ExamAttempt, error) {
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyAttempt(attempt), nil
}

func (r *fakeAttemptRepo) FindAllByExamAndUser(examID uint, userID *uint) ([]model.ExamAttempt, error) {
	var out []model.ExamAttempt
	for _, a := range r.attempts {
		if a.ExamID != examID {
			continue
		}
		if userID != nil && a.UserID != *userID {
			continue
		}
		out = append(out, *copyAttempt(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

func (r *fakeAttemptRepo) FindInProgress(userID, examID uint) (*model.ExamAttempt, error) {
	for _, a := range r.attempts {
		if a.UserID == userID && a.ExamID == examID && a.Status == model.AttemptStatusInProgress {
			return copyAttempt(a), nil
		}
	}
	return nil, nil
}

func (r *fakeAttemptRepo) Update(attempt *model.ExamAttempt) error {
	if _, ok := r.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.attempts[attempt.ID] = copyAttempt(attempt)
	return nil
}

func (r *fakeAttemptRepo) CompleteInProgress(attempt *model.ExamAttempt) (bool, error) {
	if r.beforeComplete != nil {
		r.beforeComplete()
	}
	stored, ok := r.attempts[attempt.ID]
	if !ok || stored.Status != model.AttemptStatusInProgress {
		return false, nil
	}
	r.attempts[attempt.ID] = copyAttempt(attempt)
	return true, nil
}

func (r *fakeAttemptRepo) AbandonStale(cutoff time.Time) (int64, error) {
	var swept int64
	for _, a := range r.attempts {
		if a.Status == model.AttemptStatusInProgress && a.StartedAt.Before(cutoff) {
			a.Status = model.AttemptStatusAbandoned
			swept++
		}
	}
	return swept, nil
}

type fakeCardRepo struct {
	cards  map[uint]*model.FlashCard
	nextID uint
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[uint]*model.FlashCard{}, nextID: 1}
}

func copyCard(c *model.FlashCard) *model.FlashCard {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	return &cp
}

func (r *fakeCardRepo) Create(card *model.FlashCard) error {
	card.ID = r.nextID
	r.nextID++
	r.cards[card.ID] = copyCard(card)
	return nil
}

func (r *fakeCardRepo) FindByID(id uint) (*model.FlashCard, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyCard(card), nil
}

func (r *fakeCardRepo) FindAllByUser(userID uint, subject *string) ([]model.FlashCard, error) {
	var out []model.FlashCard
	for _, c := range r.cards {
		if c.UserID != userID {
			continue
		}
		if subject != nil && c.Subject != *subject {
			continue
		}
		out = append(out, *copyCard(c))
	}
	return out, nil
}

func (r *fakeCardRepo) FindDue(userID uint, now time.Time, limit int) ([]model.FlashCard, error) {
	var out []model.FlashCard
	for _, c := range r.cards {
		if c.UserID == userID && !c.NextReviewAt.After(now) {
			out = append(out, *copyCard(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextReviewAt.Before(out[j].NextReviewAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCardRepo) Update(card *model.FlashCard) error {
	if _, ok := r.cards[card.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.cards[card.ID] = copyCard(card)
	return nil
}

func (r *fakeCardRepo) Delete(id uint) (bool, error) {
	if _, ok := r.cards[id]; !ok {
		return false, nil
	}
	delete(r.cards, id)
	return true, nil
}

type fakeDeckRepo struct {
	decks   map[uint]*model.FlashCardDeck
	members map[uint][]model.DeckCard
	cards   *fakeCardRepo
	nextID  uint
}

func newFakeDeckRepo(cards *fakeCardRepo) *fakeDeckRepo {
	return &fakeDeckRepo{
		decks:   map[uint]*model.FlashCardDeck{},
		members: map[uint][]model.DeckCard{},
		cards:   cards,
		nextID:  1,
	}
}

func (r *fakeDeckRepo) Create(deck *model.FlashCardDeck) error {
	deck.ID = r.nextID
	r.nextID++
	cp := *deck
	r.decks[deck.ID] = &cp
	return nil
}

func (r *fakeDeckRepo) FindByID(id uint) (*model.FlashCardDeck, error) {
	deck, ok := r.decks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *deck
	return &cp, nil
}

func (r *fakeDeckRepo) FindAllByUser(userID uint) ([]model.FlashCardDeck, error) {
	var out []model.FlashCardDeck
	for _, d := range r.decks {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDeckRepo) Update(deck *model.FlashCardDeck) error {
	if _, ok := r.decks[deck.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *deck
	r.decks[deck.ID] = &cp
	return nil
}

func (r *fakeDeckRepo) Delete(id uint) (bool, error) {
	if _, ok := r.decks[id]; !ok {
		return false, nil
	}
	delete(r.decks, id)
	delete(r.members, id)
	return true, nil
}

func (r *fakeDeckRepo) Memberships(deckID uint) ([]model.DeckCard, error) {
	out := append([]model.DeckCard(nil), r.members[deckID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	if r.cards != nil {
		for i := range out {
			if card, ok := r.cards.cards[out[i].CardID]; ok {
				out[i].Card = *copyCard(card)
			}
		}
	}
	return out, nil
}

func (r *fakeDeckRepo) ReplaceMemberships(deckID uint, cards []model.DeckCard) error {
	stored := make([]model.DeckCard, len(cards))
	for i, c := range cards {
		stored[i] = model.DeckCard{DeckID: deckID, CardID: c.CardID, Position: c.Position}
	}
	r.members[deckID] = stored
	return nil
}
