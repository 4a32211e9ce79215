// Обработчики rich-text API редактора: нормализация, разбор HTML, сериализация и команды панели инструментов.
// Обработчики не сохраняют состояние: документ приходит в запросе и возвращается в ответе.
package assessment

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/commands"
	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/mdcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

func (s *Services) AddRichTextServices(g *echo.Group) {
	richGroup := g.Group("richtext/")

	richGroup.POST("normalize/", s.normalizeDocument)
	richGroup.POST("deserialize/", s.deserializeHTML)
	richGroup.POST("serialize/", s.serializeDocument)

	richGroup.POST("commands/toggle-mark/", s.toggleMark)
	richGroup.POST("commands/toggle-block/", s.toggleBlock)
}

// RichInput - rich-text значение в запросе: дерево документа, HTML или Markdown.
// Приоритет: документ, затем HTML, затем Markdown.
type RichInput struct {
	Document *rttypes.Document `json:"document,omitempty"`
	HTML     *string           `json:"html,omitempty"`
	Markdown *string           `json:"markdown,omitempty"`
}

func (in RichInput) Empty() bool {
	return in.Document == nil && in.HTML == nil && in.Markdown == nil
}

// richDocument возвращает нормализованный документ из запроса. Пустой ввод дает пустой документ.
func (s *Services) richDocument(in RichInput) rttypes.Document {
	switch {
	case in.Document != nil:
		return richtext.Normalize(*in.Document)
	case in.HTML != nil:
		return htmlcodec.Deserialize(s.prepareHTML(*in.HTML))
	case in.Markdown != nil:
		return mdcodec.Parse([]byte(*in.Markdown))
	}
	return rttypes.EmptyDocument()
}

type documentResponse struct {
	Document rttypes.Document `json:"document"`
	HTML     string           `json:"html,omitempty"`
}

type commandResponse struct {
	Document rttypes.Document `json:"document"`
	HTML     string           `json:"html"`
	Active   bool             `json:"active"`
	// Target - выделение в новом документе, только для команды разметки.
	Target *commands.Target `json:"target,omitempty"`
}

// normalizeDocument godoc
// @id normalizeDocument
// @Summary richtext: нормализация документа
// @Tags RichText
// @Accept json
// @Produce json
// @Param data body RichInput true "Документ или HTML"
// @Success 200 {object} documentResponse "Каноничный документ и HTML"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/richtext/normalize/ [post]
func (s *Services) normalizeDocument(c echo.Context) error {
	var req RichInput
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.Empty() {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	doc := s.richDocument(req)
	return c.JSON(http.StatusOK, documentResponse{
		Document: doc,
		HTML:     htmlcodec.SerializeDocument(doc),
	})
}

// deserializeHTML godoc
// @id deserializeHTML
// @Summary richtext: разбор сохраненного HTML
// @Tags RichText
// @Accept json
// @Produce json
// @Param data body RichInput true "HTML"
// @Success 200 {object} documentResponse "Документ"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/richtext/deserialize/ [post]
func (s *Services) deserializeHTML(c echo.Context) error {
	var req RichInput
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.HTML == nil {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	return c.JSON(http.StatusOK, documentResponse{
		Document: htmlcodec.Deserialize(s.prepareHTML(*req.HTML)),
	})
}

// serializeDocument godoc
// @id serializeDocument
// @Summary richtext: сериализация документа в HTML
// @Tags RichText
// @Accept json
// @Produce json
// @Param data body RichInput true "Документ"
// @Success 200 {object} documentResponse "HTML"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/richtext/serialize/ [post]
func (s *Services) serializeDocument(c echo.Context) error {
	var req RichInput
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.Document == nil {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"html": htmlcodec.SerializeDocument(*req.Document),
	})
}

type toggleMarkRequest struct {
	Document *rttypes.Document `json:"document"`
	Target   commands.Target   `json:"target"`
	Mark     string            `json:"mark" validate:"mark"`
}

// toggleMark godoc
// @id toggleMark
// @Summary richtext: переключение inline-разметки
// @Description Снимает разметку, если ее несут все листья цели, иначе ставит ее. Поле active - состояние кнопки после команды, target - выделение в новом документе.
// @Tags RichText
// @Accept json
// @Produce json
// @Param data body toggleMarkRequest true "Документ, цель и вид разметки"
// @Success 200 {object} commandResponse "Новый документ"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/richtext/commands/toggle-mark/ [post]
func (s *Services) toggleMark(c echo.Context) error {
	var req toggleMarkRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrUnknownMark.WithFormattedMessage(req.Mark))
	}
	doc, err := commandDocument(req.Document, req.Target)
	if err != nil {
		return EError(c, err)
	}

	mark := rttypes.Mark(req.Mark)
	active := commands.IsMarkActive(doc, req.Target, mark)
	res, next := commands.ToggleMark(doc, req.Target, mark)
	return c.JSON(http.StatusOK, commandResponse{
		Document: res,
		HTML:     htmlcodec.SerializeDocument(res),
		Active:   !active,
		Target:   &next,
	})
}

type toggleBlockRequest struct {
	Document *rttypes.Document `json:"document"`
	Target   commands.Target   `json:"target"`
	Kind     string            `json:"kind" validate:"blockKind"`
}

// toggleBlock godoc
// @id toggleBlock
// @Summary richtext: переключение вида блока
// @Description Если первый блок цели уже имеет вид kind, блоки становятся параграфами. Поле active - состояние кнопки после команды.
// @Tags RichText
// @Accept json
// @Produce json
// @Param data body toggleBlockRequest true "Документ, цель и вид блока"
// @Success 200 {object} commandResponse "Новый документ"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Router /api/richtext/commands/toggle-block/ [post]
func (s *Services) toggleBlock(c echo.Context) error {
	var req toggleBlockRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrUnknownBlockKind.WithFormattedMessage(req.Kind))
	}
	doc, err := commandDocument(req.Document, req.Target)
	if err != nil {
		return EError(c, err)
	}

	kind := rttypes.BlockKind(req.Kind)
	active := commands.IsBlockActive(doc, req.Target, kind)
	res := commands.ToggleBlock(doc, req.Target, kind)
	return c.JSON(http.StatusOK, commandResponse{
		Document: res,
		HTML:     htmlcodec.SerializeDocument(res),
		Active:   !active || kind == rttypes.Paragraph,
	})
}

// commandDocument проверяет документ и цель команды. Пути цели относятся к нормализованному документу.
func commandDocument(doc *rttypes.Document, target commands.Target) (rttypes.Document, error) {
	if doc == nil {
		return nil, apierrors.ErrDocumentRequired
	}
	if len(target.Paths) == 0 {
		return nil, apierrors.ErrTargetRequired
	}

	res := richtext.Normalize(*doc)
	if !target.Resolves(res) {
		return nil, apierrors.ErrInvalidTarget
	}
	return res, nil
}
