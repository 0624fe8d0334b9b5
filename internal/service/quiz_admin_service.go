package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"

	"gorm.io/gorm"
)

// QuizAdminService 测验后台管理
type QuizAdminService struct {
	DB        *gorm.DB
	QuizRepo  *repository.QuizRepository
	TopicRepo *repository.TopicRepository
}

func NewQuizAdminService(db *gorm.DB, quizRepo *repository.QuizRepository, topicRepo *repository.TopicRepository) *QuizAdminService {
	return &QuizAdminService{DB: db, QuizRepo: quizRepo, TopicRepo: topicRepo}
}

type AnswerInput struct {
	AnswerText  string `json:"answerText" binding:"required"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
	Order       int    `json:"order"`
}

type QuestionInput struct {
	QuestionType string        `json:"questionType" binding:"required"`
	QuestionText string        `json:"questionText" binding:"required"`
	Explanation  string        `json:"explanation"`
	Points       int           `json:"points"`
	Order        int           `json:"order"`
	IsActive     *bool         `json:"isActive"`
	Answers      []AnswerInput `json:"answers" binding:"dive"`
}

type QuizInput struct {
	TopicID            uint            `json:"topicId" binding:"required"`
	Title              string          `json:"title" binding:"required,max=200"`
	Description        string          `json:"description"`
	Instructions       string          `json:"instructions"`
	TimeLimit          int             `json:"timeLimit" binding:"min=0"`
	PassingScore       *int            `json:"passingScore"`
	MaxAttempts        *int            `json:"maxAttempts"`
	IsRandomized       *bool           `json:"isRandomized"`
	ShowCorrectAnswers *bool           `json:"showCorrectAnswers"`
	ShowExplanations   *bool           `json:"showExplanations"`
	Difficulty         string          `json:"difficulty"`
	IsActive           *bool           `json:"isActive"`
	Questions          []QuestionInput `json:"questions" binding:"dive"`
}

// BuildQuestions 校验并转换题目，设置默认分值
func BuildQuestions(inputs []QuestionInput) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(inputs))
	for i, in := range inputs {
		if !model.ValidQuestionType(in.QuestionType) {
			return nil, invalidf("question %d: unknown type %q", i+1, in.QuestionType)
		}
		if in.Points < 0 {
			return nil, invalidf("question %d: points must not be negative", i+1)
		}
		points := in.Points
		if points == 0 {
			points = 1
		}

		correct := 0
		answers := make([]model.Answer, 0, len(in.Answers))
		for j, a := range in.Answers {
			if a.IsCorrect {
				correct++
			}
			order := a.Order
			if order == 0 {
				order = j + 1
			}
			answers = append(answers, model.Answer{
				AnswerText:  a.AnswerText,
				IsCorrect:   a.IsCorrect,
				Explanation: a.Explanation,
				Order:       order,
			})
		}

		switch in.QuestionType {
		case model.QuestionMultipleChoice, model.QuestionMatching:
			if correct == 0 {
				return nil, invalidf("question %d: at least one correct answer required", i+1)
			}
		case model.QuestionTrueFalse:
			if len(answers) != 2 || correct != 1 {
				return nil, invalidf("question %d: true/false needs two answers with one correct", i+1)
			}
		case model.QuestionOrdering:
			if len(answers) < 2 {
				return nil, invalidf("question %d: ordering needs at least two answers", i+1)
			}
		}

		order := in.Order
		if order == 0 {
			order = i + 1
		}
		questions = append(questions, model.Question{
			QuestionType: in.QuestionType,
			QuestionText: in.QuestionText,
			Explanation:  in.Explanation,
			Points:       points,
			Order:        order,
			IsActive:     boolOr(in.IsActive, true),
			Answers:      answers,
		})
	}
	return questions, nil
}

func (s *QuizAdminService) apply(q *model.Quiz, in *QuizInput) error {
	if !model.ValidDifficulty(in.Difficulty) {
		return invalidf("unknown difficulty %q", in.Difficulty)
	}
	passing := intOr(in.PassingScore, 70)
	if passing < 0 || passing > 100 {
		return invalidf("passing score must be within 0-100")
	}
	maxAttempts := intOr(in.MaxAttempts, 3)
	if maxAttempts < 0 {
		return invalidf("max attempts must not be negative")
	}
	if _, err := s.TopicRepo.FindByID(in.TopicID); err != nil {
		return notFound(err, util.ErrTopicNotFound)
	}

	q.TopicID = in.TopicID
	q.Title = in.Title
	q.Description = in.Description
	q.Instructions = in.Instructions
	q.TimeLimit = in.TimeLimit
	q.PassingScore = passing
	q.MaxAttempts = maxAttempts
	q.IsRandomized = boolOr(in.IsRandomized, true)
	q.ShowCorrectAnswers = boolOr(in.ShowCorrectAnswers, true)
	q.ShowExplanations = boolOr(in.ShowExplanations, true)
	q.Difficulty = in.Difficulty
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyBeginner
	}
	q.IsActive = boolOr(in.IsActive, true)
	return nil
}

func (s *QuizAdminService) List(topicID *uint) ([]model.Quiz, error) {
	return s.QuizRepo.ListAll(topicID)
}

func (s *QuizAdminService) Get(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindWithAllQuestions(id)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return quiz, nil
}

func (s *QuizAdminService) Create(in *QuizInput) (*model.Quiz, error) {
	quiz := &model.Quiz{}
	if err := s.apply(quiz, in); err != nil {
		return nil, err
	}
	questions, err := BuildQuestions(in.Questions)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.QuizRepo.WithTx(tx).Create(quiz)
	}); err != nil {
		return nil, err
	}
	return s.Get(quiz.ID)
}

// Update 更新测验；传入 questions 时整体替换题目
func (s *QuizAdminService) Update(id uint, in *QuizInput) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	if err := s.apply(quiz, in); err != nil {
		return nil, err
	}
	var questions []model.Question
	if in.Questions != nil {
		if questions, err = BuildQuestions(in.Questions); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.QuizRepo.WithTx(tx)
		quiz.Topic = nil
		if err := repo.Update(quiz); err != nil {
			return err
		}
		if in.Questions == nil {
			return nil
		}
		return repo.ReplaceQuestions(quiz.ID, questions)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(quiz.ID)
}

func (s *QuizAdminService) Delete(id uint) error {
	n, err := s.QuizRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrQuizNotFound
	}
	return nil
}
