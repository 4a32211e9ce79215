// Обработчики API вопросов: создание, чтение, фиксация rich-text полей, варианты ответа, примеры и экспорт.
package assessment

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/business"
	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/dto"
	"github.com/aisa-it/assessment/internal/assessment/export"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

func (s *Services) AddQuestionServices(g *echo.Group) {
	questionGroup := g.Group("questions/")

	questionGroup.GET("", s.getQuestionList)
	questionGroup.POST("", s.createQuestion)
	questionGroup.GET(":questionId/", s.getQuestion)

	questionGroup.GET(":questionId/fields/:field/", s.getQuestionField)
	questionGroup.PUT(":questionId/fields/:field/", s.commitQuestionField)

	questionGroup.POST(":questionId/options/", s.addOption)
	questionGroup.PUT(":questionId/options/:optionId/", s.commitOption)

	questionGroup.POST(":questionId/examples/", s.addExample)
	questionGroup.PUT(":questionId/examples/:exampleId/", s.commitExample)

	questionGroup.GET(":questionId/export/", s.exportQuestion)
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		return uuid.Nil, apierrors.ErrInvalidID
	}
	return id, nil
}

type questionListResponse struct {
	Count  int64               `json:"count"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
	Result []dto.QuestionLight `json:"result"`
}

// getQuestionList godoc
// @id getQuestionList
// @Summary Вопросы: список вопросов
// @Tags Questions
// @Produce json
// @Param offset query int false "Смещение" default(0)
// @Param limit query int false "Размер страницы" default(50)
// @Param draft query bool false "Только черновики или только опубликованные"
// @Success 200 {object} questionListResponse "Страница вопросов"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/questions/ [get]
func (s *Services) getQuestionList(c echo.Context) error {
	offset := 0
	limit := defaultPageLimit
	var draft *bool

	binder := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit)
	if c.QueryParam("draft") != "" {
		var d bool
		binder = binder.Bool("draft", &d)
		draft = &d
	}
	if err := binder.BindError(); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	questions, count, err := s.business.ListQuestions(offset, limit, draft)
	if err != nil {
		return EError(c, err)
	}

	res := questionListResponse{
		Count:  count,
		Offset: offset,
		Limit:  limit,
		Result: make([]dto.QuestionLight, 0, len(questions)),
	}
	for _, q := range questions {
		res.Result = append(res.Result, *q.ToLightDTO())
	}
	return c.JSON(http.StatusOK, res)
}

type createQuestionRequest struct {
	Title       RichInput `json:"title"`
	Description RichInput `json:"description"`
	Explanation RichInput `json:"explanation"`
	Constraints RichInput `json:"constraints"`
	Draft       bool      `json:"draft"`
}

// createQuestion godoc
// @id createQuestion
// @Summary Вопросы: создание вопроса
// @Description Каждое rich-text поле передается документом или HTML. HTML очищается перед разбором.
// @Tags Questions
// @Accept json
// @Produce json
// @Param data body createQuestionRequest true "Поля вопроса"
// @Success 201 {object} dto.Question "Созданный вопрос"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/questions/ [post]
func (s *Services) createQuestion(c echo.Context) error {
	var req createQuestionRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.Title.Empty() {
		return EErrorDefined(c, apierrors.ErrQuestionTitleRequired)
	}

	q, err := s.business.CreateQuestion(business.QuestionForm{
		Title:       s.richDocument(req.Title),
		Description: s.richDocument(req.Description),
		Explanation: s.richDocument(req.Explanation),
		Constraints: s.richDocument(req.Constraints),
		Draft:       req.Draft,
	})
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, q.ToDTO())
}

// getQuestion godoc
// @id getQuestion
// @Summary Вопросы: получение вопроса
// @Tags Questions
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Success 200 {object} dto.Question "Вопрос с вариантами ответа и примерами"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/ [get]
func (s *Services) getQuestion(c echo.Context) error {
	id, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}

	q, err := s.business.GetQuestion(id)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, q.ToDTO())
}

type questionFieldRequest struct {
	Field string `param:"field" json:"-" validate:"questionField"`
	RichInput
	Draft bool `json:"draft"`
}

type questionFieldResponse struct {
	dto.RichField
	Field string `json:"field"`
	Draft bool   `json:"draft"`
}

// getQuestionField godoc
// @id getQuestionField
// @Summary Вопросы: получение rich-text поля
// @Tags Questions
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param field path string true "Поле" Enums(title, description, explanation, constraints)
// @Success 200 {object} questionFieldResponse "Документ поля и его HTML"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/fields/{field}/ [get]
func (s *Services) getQuestionField(c echo.Context) error {
	id, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}
	field := c.Param("field")
	if err := c.Validate(questionFieldRequest{Field: field}); err != nil {
		return EErrorDefined(c, apierrors.ErrUnknownQuestionField.WithFormattedMessage(field))
	}

	q, err := s.business.GetQuestion(id)
	if err != nil {
		return EError(c, err)
	}
	doc, _ := q.Field(field)
	return c.JSON(http.StatusOK, questionFieldResponse{
		RichField: dao.RichField(*doc),
		Field:     field,
		Draft:     q.Draft,
	})
}

// commitQuestionField godoc
// @id commitQuestionField
// @Summary Вопросы: фиксация rich-text поля
// @Description Документ нормализуется и сохраняется каноничным HTML. draft=true сохраняет черновик, draft=false отправляет вопрос.
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param field path string true "Поле" Enums(title, description, explanation, constraints)
// @Param data body questionFieldRequest true "Документ или HTML"
// @Success 200 {object} questionFieldResponse "Сохраненное поле"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/fields/{field}/ [put]
func (s *Services) commitQuestionField(c echo.Context) error {
	id, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}

	var req questionFieldRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrUnknownQuestionField.WithFormattedMessage(req.Field))
	}
	if req.Empty() {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	q, err := s.business.CommitQuestionField(id, req.Field, s.richDocument(req.RichInput), req.Draft)
	if err != nil {
		return EError(c, err)
	}
	doc, _ := q.Field(req.Field)
	return c.JSON(http.StatusOK, questionFieldResponse{
		RichField: dao.RichField(*doc),
		Field:     req.Field,
		Draft:     q.Draft,
	})
}

type optionRequest struct {
	Content RichInput `json:"content"`
	Correct bool      `json:"correct"`
}

// addOption godoc
// @id addOption
// @Summary Вопросы: добавление варианта ответа
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param data body optionRequest true "Вариант ответа"
// @Success 201 {object} dto.QuestionOption "Созданный вариант"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/options/ [post]
func (s *Services) addOption(c echo.Context) error {
	questionId, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}

	var req optionRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	option, err := s.business.AddOption(questionId, s.richDocument(req.Content), req.Correct)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, option.ToDTO())
}

// commitOption godoc
// @id commitOption
// @Summary Вопросы: изменение варианта ответа
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param optionId path string true "ID варианта"
// @Param data body optionRequest true "Вариант ответа"
// @Success 200 {object} dto.QuestionOption "Сохраненный вариант"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вариант не найден"
// @Router /api/questions/{questionId}/options/{optionId}/ [put]
func (s *Services) commitOption(c echo.Context) error {
	questionId, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}
	optionId, err := uuidParam(c, "optionId")
	if err != nil {
		return EError(c, err)
	}

	var req optionRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.Content.Empty() {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	option, err := s.business.CommitOption(questionId, optionId, s.richDocument(req.Content), req.Correct)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, option.ToDTO())
}

type exampleRequest struct {
	Input  RichInput `json:"input"`
	Output RichInput `json:"output"`
}

// addExample godoc
// @id addExample
// @Summary Вопросы: добавление примера
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param data body exampleRequest true "Входные и выходные данные"
// @Success 201 {object} dto.QuestionExample "Созданный пример"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/examples/ [post]
func (s *Services) addExample(c echo.Context) error {
	questionId, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}

	var req exampleRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	example, err := s.business.AddExample(questionId, s.richDocument(req.Input), s.richDocument(req.Output))
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, example.ToDTO())
}

// commitExample godoc
// @id commitExample
// @Summary Вопросы: изменение примера
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionId path string true "ID вопроса"
// @Param exampleId path string true "ID примера"
// @Param data body exampleRequest true "Входные и выходные данные"
// @Success 200 {object} dto.QuestionExample "Сохраненный пример"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Пример не найден"
// @Router /api/questions/{questionId}/examples/{exampleId}/ [put]
func (s *Services) commitExample(c echo.Context) error {
	questionId, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}
	exampleId, err := uuidParam(c, "exampleId")
	if err != nil {
		return EError(c, err)
	}

	var req exampleRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	example, err := s.business.CommitExample(questionId, exampleId, s.richDocument(req.Input), s.richDocument(req.Output))
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, example.ToDTO())
}

// exportQuestion godoc
// @id exportQuestion
// @Summary Вопросы: экспорт вопроса
// @Tags Questions
// @Produce text/markdown
// @Produce application/pdf
// @Param questionId path string true "ID вопроса"
// @Param format query string false "Формат" Enums(md, pdf) default(md)
// @Success 200 {file} binary "Файл вопроса"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Вопрос не найден"
// @Router /api/questions/{questionId}/export/ [get]
func (s *Services) exportQuestion(c echo.Context) error {
	id, err := uuidParam(c, "questionId")
	if err != nil {
		return EError(c, err)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "md"
	}
	if format != "md" && format != "pdf" {
		return EErrorDefined(c, apierrors.ErrUnsupportedFormat.WithFormattedMessage(format))
	}

	q, err := s.business.GetQuestion(id)
	if err != nil {
		return EError(c, err)
	}

	var buf bytes.Buffer
	contentType := "text/markdown; charset=utf-8"
	if format == "pdf" {
		contentType = "application/pdf"
		err = export.QuestionToFPDF(q, &buf)
	} else {
		err = export.QuestionToMarkdown(q, &buf)
	}
	if err != nil {
		return EError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"question-%s.%s\"", q.ID, format))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
