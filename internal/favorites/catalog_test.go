package favorites

import (
	"context"
	"strings"
	"testing"

	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
	db      *storage.DB
	catalog *Catalog
	ctx     context.Context
	alice   int64
	bob     int64
}

func (suite *CatalogTestSuite) SetupTest() {
	suite.ctx = context.Background()
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err)
	suite.db = db
	suite.catalog = New(db)

	a, err := db.CreateUser(suite.ctx, "alice", "x")
	require.NoError(suite.T(), err)
	b, err := db.CreateUser(suite.ctx, "bob", "x")
	require.NoError(suite.T(), err)
	suite.alice, suite.bob = a.ID, b.ID
}

func (suite *CatalogTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *CatalogTestSuite) TestAddAndList() {
	for _, name := range []string{"Rent", " Coffee ", "Bus"} {
		_, err := suite.catalog.Add(suite.ctx, suite.alice, Input{
			Name: name, Amount: decimal.RequireFromString("2.75"), Type: models.Expense, Category: "Other",
		})
		require.NoError(suite.T(), err)
	}

	list, err := suite.catalog.List(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 3)
	assert.Equal(suite.T(), "Bus", list[0].Name)
	assert.Equal(suite.T(), "Coffee", list[1].Name, "names are trimmed")
	assert.Equal(suite.T(), "Rent", list[2].Name)

	list, err = suite.catalog.List(suite.ctx, suite.bob)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *CatalogTestSuite) TestAddValidation() {
	valid := Input{Name: "Coffee", Amount: decimal.NewFromInt(3), Type: models.Expense, Category: "Food"}

	in := valid
	in.Name = " "
	_, err := suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	in = valid
	in.Name = strings.Repeat("n", MaxNameLen+1)
	_, err = suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	in = valid
	in.Category = ""
	_, err = suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	in = valid
	in.Category = strings.Repeat("c", models.MaxCategoryLen+1)
	_, err = suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	in = valid
	in.Type = "Loan"
	_, err = suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	in = valid
	in.Amount = decimal.NewFromInt(-1)
	_, err = suite.catalog.Add(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidAmount)

	list, err := suite.catalog.List(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *CatalogTestSuite) TestDeleteOwnership() {
	f, err := suite.catalog.Add(suite.ctx, suite.alice, Input{
		Name: "Coffee", Amount: decimal.NewFromInt(3), Type: models.Expense, Category: "Food",
	})
	require.NoError(suite.T(), err)

	assert.ErrorIs(suite.T(), suite.catalog.Delete(suite.ctx, suite.bob, f.ID), models.ErrNotFound)
	require.NoError(suite.T(), suite.catalog.Delete(suite.ctx, suite.alice, f.ID))
	assert.ErrorIs(suite.T(), suite.catalog.Delete(suite.ctx, suite.alice, f.ID), models.ErrNotFound)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
