package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) login(username, password string) {
	err := suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	require.NoError(suite.T(), suite.page.Locator("input[name=username]").Fill(username), "failed to fill username")
	require.NoError(suite.T(), suite.page.Locator("input[name=password]").Fill(password), "failed to fill password")
	require.NoError(suite.T(), suite.page.Locator(".login-btn").Click(), "failed to click login")

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to the transaction list after login")
}

func (suite *E2ETestSuite) addTransaction(typ, amount, category, description, date string) {
	form := suite.page.Locator("#transaction-form")
	_, err := form.Locator("select[name=type]").SelectOption(playwright.SelectOptionValues{Values: &[]string{typ}})
	require.NoError(suite.T(), err, "failed to select type")
	require.NoError(suite.T(), form.Locator("input[name=amount]").Fill(amount))
	require.NoError(suite.T(), form.Locator("input[name=category]").Fill(category))
	require.NoError(suite.T(), form.Locator("input[name=description]").Fill(description))
	require.NoError(suite.T(), form.Locator("input[name=date_posted]").Fill(date))
	require.NoError(suite.T(), form.Locator("button.submit").Click(), "failed to submit transaction")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.login("testuser", "testpass123")

	// Start from an empty ledger so reruns see the same totals
	suite.page.OnDialog(func(d playwright.Dialog) { _ = d.Accept() })
	if n, _ := suite.page.Locator(".transaction-item").Count(); n > 0 {
		require.NoError(suite.T(), suite.page.Locator(".clear-all button").Click())
		err := suite.expect.Locator(suite.page.Locator(".transaction-item")).ToHaveCount(0)
		require.NoError(suite.T(), err, "clear all did not empty the list")
	}

	suite.addTransaction("Income", "50000", "Salary", "January pay", "2024-01-01")
	suite.addTransaction("Expense", "200", "Food", "Groceries", "2024-01-01")

	err := suite.expect.Locator(suite.page.Locator(".transaction-item")).ToHaveCount(2)
	require.NoError(suite.T(), err, "transaction count mismatch")

	err = suite.expect.Locator(suite.page.Locator("#total-income")).ToHaveText("50000.00")
	require.NoError(suite.T(), err, "income mismatch")
	err = suite.expect.Locator(suite.page.Locator("#total-expense")).ToHaveText("200.00")
	require.NoError(suite.T(), err, "expense mismatch")
	err = suite.expect.Locator(suite.page.Locator("#net-balance")).ToHaveText("49800.00")
	require.NoError(suite.T(), err, "net balance mismatch")

	err = suite.expect.Locator(suite.page.Locator(".chart-row")).ToHaveCount(1)
	require.NoError(suite.T(), err, "chart should have one expense category")

	// Filtering on a day without data shows an empty list and zero totals
	_, err = suite.page.Goto(appURL + "/?date=2024-01-02")
	require.NoError(suite.T(), err)
	err = suite.expect.Locator(suite.page.Locator(".transaction-item")).ToHaveCount(0)
	require.NoError(suite.T(), err, "filtered list should be empty")
	err = suite.expect.Locator(suite.page.Locator("#net-balance")).ToHaveText("0.00")
	require.NoError(suite.T(), err, "filtered net balance should be zero")
}

func (suite *E2ETestSuite) TestFavoritesFlow() {
	suite.login("testuser", "testpass123")

	_, err := suite.page.Goto(appURL + "/favorites")
	require.NoError(suite.T(), err)

	form := suite.page.Locator("#favorite-form")
	require.NoError(suite.T(), form.Locator("input[name=name]").Fill("E2E Coffee"))
	require.NoError(suite.T(), form.Locator("input[name=amount]").Fill("3.50"))
	require.NoError(suite.T(), form.Locator("input[name=category]").Fill("Food"))
	require.NoError(suite.T(), form.Locator("button.submit").Click())

	item := suite.page.Locator(".favorite-item", playwright.PageLocatorOptions{HasText: "E2E Coffee"})
	err = suite.expect.Locator(item).ToHaveCount(1)
	require.NoError(suite.T(), err, "favorite not listed")

	// The favorite shows up as a quick-add button on the list view
	_, err = suite.page.Goto(appURL + "/")
	require.NoError(suite.T(), err)
	err = suite.expect.Locator(suite.page.Locator(".favorite-btn", playwright.PageLocatorOptions{HasText: "E2E Coffee"})).ToBeVisible()
	require.NoError(suite.T(), err, "quick-add button missing")

	_, err = suite.page.Goto(appURL + "/favorites")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), item.Locator("button.danger").Click())
	err = suite.expect.Locator(item).ToHaveCount(0)
	require.NoError(suite.T(), err, "favorite not deleted")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
