package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	db     *storage.DB
	ledger *Ledger
	ctx    context.Context
	alice  int64
	bob    int64
	now    time.Time
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err)
	suite.db = db

	a, err := db.CreateUser(suite.ctx, "alice", "x")
	require.NoError(suite.T(), err)
	b, err := db.CreateUser(suite.ctx, "bob", "x")
	require.NoError(suite.T(), err)
	suite.alice, suite.bob = a.ID, b.ID

	suite.now = time.Date(2024, 3, 15, 23, 30, 0, 0, time.Local)
	suite.ledger = New(db).WithClock(func() time.Time { return suite.now })
}

func (suite *LedgerTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *LedgerTestSuite) add(userID int64, typ models.TransactionType, category, amount string, date *models.Date) *models.Transaction {
	t, err := suite.ledger.Add(suite.ctx, userID, AddInput{
		Type:     typ,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	})
	require.NoError(suite.T(), err)
	return t
}

func day(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

func (suite *LedgerTestSuite) TestAddDefaultsToToday() {
	t := suite.add(suite.alice, models.Expense, "Food", "5", nil)
	assert.Equal(suite.T(), "2024-03-15", t.Date.String())

	// The clock is read per call, not once
	suite.now = suite.now.Add(time.Hour)
	t = suite.add(suite.alice, models.Expense, "Food", "5", nil)
	assert.Equal(suite.T(), "2024-03-16", t.Date.String())
}

func (suite *LedgerTestSuite) TestAddValidation() {
	_, err := suite.ledger.Add(suite.ctx, suite.alice, AddInput{Type: "Transfer", Category: "x", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	_, err = suite.ledger.Add(suite.ctx, suite.alice, AddInput{Type: models.Expense, Category: "  ", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	_, err = suite.ledger.Add(suite.ctx, suite.alice, AddInput{Type: models.Expense, Category: "Food", Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidAmount)

	_, err = suite.ledger.Add(suite.ctx, suite.alice, AddInput{
		Type: models.Expense, Category: strings.Repeat("c", MaxCategoryLen+1), Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	// Zero is allowed
	_, err = suite.ledger.Add(suite.ctx, suite.alice, AddInput{Type: models.Income, Category: "Gift", Amount: decimal.Zero})
	assert.NoError(suite.T(), err)

	list, err := suite.ledger.List(suite.ctx, suite.alice, nil)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1, "rejected inputs create no rows")
}

func (suite *LedgerTestSuite) TestListFilterAndSummary() {
	suite.add(suite.alice, models.Income, "Salary", "50000", day(2024, 1, 1))
	suite.add(suite.alice, models.Expense, "Food", "200", day(2024, 1, 1))

	list, err := suite.ledger.List(suite.ctx, suite.alice, day(2024, 1, 1))
	require.NoError(suite.T(), err)
	s := Summarize(list)
	assert.Equal(suite.T(), "49800", s.NetBalance.String())

	list, err = suite.ledger.List(suite.ctx, suite.alice, day(2024, 1, 2))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
	s = Summarize(list)
	assert.True(suite.T(), s.TotalIncome.IsZero())
	assert.True(suite.T(), s.TotalExpense.IsZero())
	assert.True(suite.T(), s.NetBalance.IsZero())
	assert.Empty(suite.T(), s.Categories)
}

func (suite *LedgerTestSuite) TestEditWithoutDateKeepsDate() {
	t := suite.add(suite.alice, models.Expense, "Food", "10", day(2024, 1, 1))

	err := suite.ledger.Edit(suite.ctx, suite.alice, t.ID, EditInput{
		Type: models.Expense, Category: "Dining", Amount: decimal.NewFromInt(12),
	})
	require.NoError(suite.T(), err)

	list, err := suite.ledger.List(suite.ctx, suite.alice, nil)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), "2024-01-01", list[0].Date.String())
	assert.Equal(suite.T(), "Dining", list[0].Category)
}

func (suite *LedgerTestSuite) TestEditWithDateUpdatesDate() {
	t := suite.add(suite.alice, models.Expense, "Food", "10", day(2024, 1, 1))
	desc := "lunch"

	err := suite.ledger.Edit(suite.ctx, suite.alice, t.ID, EditInput{
		Type: models.Income, Category: "Refund", Amount: decimal.NewFromInt(10), Description: &desc, Date: day(2024, 1, 5),
	})
	require.NoError(suite.T(), err)

	list, err := suite.ledger.List(suite.ctx, suite.alice, day(2024, 1, 5))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), models.Income, list[0].Type)
	assert.Equal(suite.T(), "lunch", list[0].Description)
}

func (suite *LedgerTestSuite) TestEditValidationAndOwnership() {
	t := suite.add(suite.alice, models.Expense, "Food", "10", day(2024, 1, 1))

	err := suite.ledger.Edit(suite.ctx, suite.alice, t.ID, EditInput{Type: models.Expense, Category: "Food", Amount: decimal.NewFromInt(-3)})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidAmount)

	err = suite.ledger.Edit(suite.ctx, suite.bob, t.ID, EditInput{Type: models.Expense, Category: "Food", Amount: decimal.NewFromInt(3)})
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)

	err = suite.ledger.Edit(suite.ctx, suite.alice, t.ID+100, EditInput{Type: models.Expense, Category: "Food", Amount: decimal.NewFromInt(3)})
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *LedgerTestSuite) TestDelete() {
	t := suite.add(suite.alice, models.Expense, "Food", "10", nil)

	assert.ErrorIs(suite.T(), suite.ledger.Delete(suite.ctx, suite.bob, t.ID), models.ErrNotFound)
	require.NoError(suite.T(), suite.ledger.Delete(suite.ctx, suite.alice, t.ID))
	assert.ErrorIs(suite.T(), suite.ledger.Delete(suite.ctx, suite.alice, t.ID), models.ErrNotFound)
}

func (suite *LedgerTestSuite) TestClearAll() {
	suite.add(suite.alice, models.Expense, "Food", "1", nil)
	suite.add(suite.alice, models.Expense, "Food", "2", nil)
	suite.add(suite.bob, models.Expense, "Food", "3", nil)

	n, err := suite.ledger.ClearAll(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 2, n)

	n, err = suite.ledger.ClearAll(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), n)

	list, err := suite.ledger.List(suite.ctx, suite.bob, nil)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
