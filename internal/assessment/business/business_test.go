package business

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	errStack "github.com/aisa-it/assessment/internal/assessment/stack-error"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(dao.AllModels()...))
	return db
}

func TestQuestionLifecycle(t *testing.T) {
	db := newTestDB(t)
	bl := NewBL(db)

	q, err := bl.CreateQuestion(QuestionForm{
		Title: htmlcodec.Deserialize("<p>Сумма <strong>двух</strong> чисел</p>"),
		Draft: true,
	})
	require.NoError(t, err)

	t.Run("empty fields stored canonical", func(t *testing.T) {
		var raw string
		require.NoError(t, db.Table("questions").Select("description").Where("id = ?", q.ID).Scan(&raw).Error)
		assert.Equal(t, "<p></p>", raw)
	})

	t.Run("get field", func(t *testing.T) {
		doc, err := bl.GetQuestionField(q.ID, dao.FieldTitle)
		require.NoError(t, err)
		assert.Equal(t, "<p>Сумма <strong>двух</strong> чисел</p>", htmlcodec.SerializeDocument(doc))
	})

	t.Run("commit field normalizes", func(t *testing.T) {
		doc := rttypes.Document{rttypes.NewText("a + b"), rttypes.NewText("", rttypes.Bold)}
		_, err := bl.CommitQuestionField(q.ID, dao.FieldDescription, doc, false)
		require.NoError(t, err)

		var raw string
		require.NoError(t, db.Table("questions").Select("description").Where("id = ?", q.ID).Scan(&raw).Error)
		assert.Equal(t, "<p>a + b</p>", raw)

		stored, err := bl.GetQuestion(q.ID)
		require.NoError(t, err)
		assert.False(t, stored.Draft)
		assert.Equal(t, "a + b", stored.ToLightDTO().Preview)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := bl.CommitQuestionField(q.ID, "answer", rttypes.EmptyDocument(), true)
		var defined apierrors.DefinedError
		require.ErrorAs(t, err, &defined)
		assert.Equal(t, apierrors.ErrUnknownQuestionField.Code, defined.Code)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := bl.CommitQuestionField(q.ID, dao.FieldTitle, nil, true)
		assert.Equal(t, apierrors.ErrQuestionTitleRequired, err)
	})

	t.Run("options and examples ordered", func(t *testing.T) {
		first, err := bl.AddOption(q.ID, htmlcodec.Deserialize("<p>1</p>"), false)
		require.NoError(t, err)
		second, err := bl.AddOption(q.ID, htmlcodec.Deserialize("<p>2</p>"), true)
		require.NoError(t, err)
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, 1, second.Position)

		_, err = bl.CommitOption(q.ID, first.ID, htmlcodec.Deserialize("<p><code>3</code></p>"), true)
		require.NoError(t, err)

		example, err := bl.AddExample(q.ID, htmlcodec.Deserialize("1 2"), htmlcodec.Deserialize("3"))
		require.NoError(t, err)
		_, err = bl.CommitExample(q.ID, example.ID, htmlcodec.Deserialize("<pre>1 2</pre>"), htmlcodec.Deserialize("<pre>3</pre>"))
		require.NoError(t, err)

		stored, err := bl.GetQuestion(q.ID)
		require.NoError(t, err)
		require.Len(t, stored.Options, 2)
		assert.Equal(t, "<p><code>3</code></p>", htmlcodec.SerializeDocument(stored.Options[0].Content))
		assert.True(t, stored.Options[0].Correct)
		require.Len(t, stored.Examples, 1)
		assert.Equal(t, "<pre>1 2</pre>", htmlcodec.SerializeDocument(stored.Examples[0].Input))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := bl.GetQuestion(dao.GenUUID())
		assert.Equal(t, apierrors.ErrQuestionNotFound, err)

		_, err = bl.AddOption(dao.GenUUID(), nil, false)
		assert.Equal(t, apierrors.ErrQuestionNotFound, err)

		_, err = bl.CommitExample(q.ID, dao.GenUUID(), nil, nil)
		assert.Equal(t, apierrors.ErrExampleNotFound, err)
	})
}

func TestCreateQuestionRequiresTitle(t *testing.T) {
	bl := NewBL(newTestDB(t))
	_, err := bl.CreateQuestion(QuestionForm{Title: htmlcodec.Deserialize("<p>  </p>")})
	assert.Equal(t, apierrors.ErrQuestionTitleRequired, err)
}

func TestListQuestions(t *testing.T) {
	bl := NewBL(newTestDB(t))
	for _, title := range []string{"a", "b", "c"} {
		_, err := bl.CreateQuestion(QuestionForm{Title: htmlcodec.Deserialize(title), Draft: title == "b"})
		require.NoError(t, err)
	}

	all, count, err := bl.ListQuestions(0, 2, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, all, 2)

	draft := true
	drafts, count, err := bl.ListQuestions(0, 10, &draft)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, drafts, 1)
	assert.Equal(t, "b", drafts[0].ToLightDTO().Title)
}

func TestCommitErrorContext(t *testing.T) {
	db := newTestDB(t)
	bl := NewBL(db)

	q, err := bl.CreateQuestion(QuestionForm{Title: htmlcodec.Deserialize("<p>t</p>")})
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail", func(tx *gorm.DB) {
		tx.AddError(diskFull)
	}))

	_, err = bl.CommitQuestionField(q.ID, dao.FieldDescription, htmlcodec.Deserialize("<p>Даны <b>a</b> и b</p>"), true)
	require.ErrorIs(t, err, diskFull)

	var te *errStack.TrackerError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, q.ID.String(), te.Context[errStack.KeyQuestion])
	assert.Equal(t, dao.FieldDescription, te.Context[errStack.KeyField])
	assert.Contains(t, te.Context, errStack.KeyContent)
	require.Len(t, te.Frames, 1)
	assert.Contains(t, te.Frames[0], "business.go")

	id, ok := errStack.QuestionID(err)
	assert.True(t, ok)
	assert.Equal(t, q.ID.String(), id)
}
