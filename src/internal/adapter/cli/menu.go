package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/service_interfaces"
)

// Menu drives the interactive terminal session. It owns no business
// rules; every choice maps onto one service call and the menu only
// renders the response envelope.
type Menu struct {
	in       *bufio.Scanner
	out      io.Writer
	sessions service_interfaces.SessionService
	ledger   service_interfaces.LedgerService
	market   service_interfaces.MarketService
}

func NewMenu(
	in io.Reader,
	out io.Writer,
	sessions service_interfaces.SessionService,
	ledger service_interfaces.LedgerService,
	market service_interfaces.MarketService,
) *Menu {
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		sessions: sessions,
		ledger:   ledger,
		market:   market,
	}
}

// Run loops until the user exits or input is exhausted.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "==== Welcome to Grey Bank ====")

	for {
		if _, err := m.sessions.Active(); err == nil {
			if done := m.accountMenu(ctx); done {
				return nil
			}
			continue
		}

		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "1. Create account")
		fmt.Fprintln(m.out, "2. Login")
		fmt.Fprintln(m.out, "3. Exit")

		choice, ok := m.promptInt("Enter choice: ")
		if !ok {
			return nil
		}

		switch choice {
		case 1:
			m.createAccount(ctx)
		case 2:
			m.login(ctx)
		case 3:
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice, try again.")
		}
	}
}

// accountMenu serves one logged-in choice. It reports true when the
// whole program should exit.
func (m *Menu) accountMenu(ctx context.Context) bool {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "1. Deposit")
	fmt.Fprintln(m.out, "2. Withdraw")
	fmt.Fprintln(m.out, "3. Purchase asset")
	fmt.Fprintln(m.out, "4. Loan services")
	fmt.Fprintln(m.out, "5. Add interest")
	fmt.Fprintln(m.out, "6. Currency exchange")
	fmt.Fprintln(m.out, "7. Market prices")
	fmt.Fprintln(m.out, "8. Account status")
	fmt.Fprintln(m.out, "9. Logout")

	choice, ok := m.promptInt("Enter choice: ")
	if !ok {
		return true
	}

	switch choice {
	case 1:
		m.deposit(ctx)
	case 2:
		m.withdraw(ctx)
	case 3:
		m.purchaseAsset(ctx)
	case 4:
		m.loanServices(ctx)
	case 5:
		m.addInterest(ctx)
	case 6:
		m.currencyExchange(ctx)
	case 7:
		m.marketPrices(ctx)
	case 8:
		m.accountStatus(ctx)
	case 9:
		if resp, err := m.sessions.Logout(ctx); err != nil {
			m.printErrors(resp.Message, resp.Errors)
		} else {
			fmt.Fprintf(m.out, "Logged out. See you soon, %s!\n", resp.Data.Name)
		}
	default:
		fmt.Fprintln(m.out, "Invalid choice, try again.")
	}
	return false
}

func (m *Menu) createAccount(ctx context.Context) {
	name, ok := m.promptLine("Enter your name: ")
	if !ok {
		return
	}
	pin, ok := m.promptInt(fmt.Sprintf("Choose a PIN (%d-%d): ", domain.MinPIN, domain.MaxPIN))
	if !ok {
		return
	}

	resp, err := m.sessions.Register(ctx, models.RegisterRequest{Name: name, PIN: pin})
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Account created for %s with a starting balance of $%s.\n",
		resp.Data.Name, resp.Data.StartingBalance)
	fmt.Fprintln(m.out, "Please log in to continue.")
}

func (m *Menu) login(ctx context.Context) {
	name, ok := m.promptLine("Enter your name: ")
	if !ok {
		return
	}
	pin, ok := m.promptInt("Enter your PIN: ")
	if !ok {
		return
	}

	resp, err := m.sessions.Login(ctx, models.LoginRequest{Name: name, PIN: pin})
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Welcome back, %s! Your balance is $%s.\n", resp.Data.Name, resp.Data.Balance)
}

func (m *Menu) deposit(ctx context.Context) {
	amount, ok := m.promptDecimal("Enter amount to deposit: ")
	if !ok {
		return
	}

	resp, err := m.ledger.Deposit(ctx, models.DepositRequest{Amount: amount})
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Deposited $%s. New balance: $%s. Ref: %s\n",
		resp.Data.Amount, resp.Data.Balance, resp.Data.Reference)
}

func (m *Menu) withdraw(ctx context.Context) {
	amount, ok := m.promptDecimal("Enter amount to withdraw: ")
	if !ok {
		return
	}
	pin, ok := m.promptInt("Re-enter your PIN: ")
	if !ok {
		return
	}

	resp, err := m.ledger.Withdraw(ctx, models.WithdrawRequest{Amount: amount, PIN: pin})
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Withdrew $%s. New balance: $%s. Ref: %s\n",
		resp.Data.Amount, resp.Data.Balance, resp.Data.Reference)
}

func (m *Menu) purchaseAsset(ctx context.Context) {
	prices := m.market.CurrentPrices()
	fmt.Fprintln(m.out, "Available assets:")
	for _, kind := range domain.AssetKinds() {
		fmt.Fprintf(m.out, "  %-6s $%s per unit\n", kind, prices.Price(kind).StringFixed(2))
	}

	asset, ok := m.promptLine("Enter asset (CRYPTO/GOLD/SILVER): ")
	if !ok {
		return
	}
	pin, ok := m.promptInt("Re-enter your PIN: ")
	if !ok {
		return
	}

	resp, err := m.ledger.PurchaseAsset(ctx, models.PurchaseAssetRequest{Asset: asset, PIN: pin})
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Bought %s units of %s at $%s each for $%s. New balance: $%s. Ref: %s\n",
		resp.Data.Units, resp.Data.Asset, resp.Data.UnitPrice, resp.Data.Spent,
		resp.Data.Balance, resp.Data.Reference)
}

func (m *Menu) loanServices(ctx context.Context) {
	fmt.Fprintln(m.out, "1. Take loan")
	fmt.Fprintln(m.out, "2. Repay loan")
	choice, ok := m.promptInt("Enter choice: ")
	if !ok {
		return
	}

	pin, ok := m.promptInt("Re-enter your PIN: ")
	if !ok {
		return
	}

	switch choice {
	case 1:
		if !m.confirm("Take out a loan? (y/n): ") {
			fmt.Fprintln(m.out, "Loan cancelled.")
			return
		}
		resp, err := m.ledger.TakeLoan(ctx, models.LoanRequest{PIN: pin})
		if err != nil {
			m.printErrors(resp.Message, resp.Errors)
			return
		}
		fmt.Fprintf(m.out, "Loan approved. Outstanding: $%s. New balance: $%s. Ref: %s\n",
			resp.Data.Outstanding, resp.Data.Balance, resp.Data.Reference)
	case 2:
		if !m.confirm("Repay your loan in full? (y/n): ") {
			fmt.Fprintln(m.out, "Repayment cancelled.")
			return
		}
		resp, err := m.ledger.RepayLoan(ctx, models.LoanRequest{PIN: pin})
		if err != nil {
			m.printErrors(resp.Message, resp.Errors)
			return
		}
		fmt.Fprintf(m.out, "Loan repaid. New balance: $%s. Ref: %s\n",
			resp.Data.Balance, resp.Data.Reference)
	default:
		fmt.Fprintln(m.out, "Invalid choice, try again.")
	}
}

func (m *Menu) addInterest(ctx context.Context) {
	resp, err := m.ledger.AddInterest(ctx)
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	fmt.Fprintf(m.out, "Added %s interest: $%s. New balance: $%s. Ref: %s\n",
		resp.Data.Rate, resp.Data.Interest, resp.Data.Balance, resp.Data.Reference)
}

func (m *Menu) currencyExchange(ctx context.Context) {
	rates := m.market.CurrentRates()
	fmt.Fprintln(m.out, "Exchange rates (USD per unit):")
	for _, code := range domain.CurrencyCodes() {
		fmt.Fprintf(m.out, "  %s %s\n", code, rates.Rate(code).String())
	}
	fmt.Fprintln(m.out, "1. Convert USD to foreign currency")
	fmt.Fprintln(m.out, "2. Convert foreign currency to USD")

	choice, ok := m.promptInt("Enter choice: ")
	if !ok {
		return
	}
	currency, ok := m.promptLine("Enter currency (EUR/GBP/INR): ")
	if !ok {
		return
	}
	amount, ok := m.promptDecimal("Enter amount: ")
	if !ok {
		return
	}

	req := models.ConvertRequest{Currency: currency, Amount: amount}
	switch choice {
	case 1:
		resp, err := m.ledger.ConvertToForeign(ctx, req)
		if err != nil {
			m.printErrors(resp.Message, resp.Errors)
			return
		}
		fmt.Fprintf(m.out, "Converted $%s to %s %s (rate %s). Holding: %s. Balance: $%s. Ref: %s\n",
			resp.Data.Amount, resp.Data.Converted, resp.Data.To, resp.Data.Rate,
			resp.Data.Holding, resp.Data.Balance, resp.Data.Reference)
	case 2:
		resp, err := m.ledger.ConvertToUSD(ctx, req)
		if err != nil {
			m.printErrors(resp.Message, resp.Errors)
			return
		}
		fmt.Fprintf(m.out, "Converted %s %s to $%s (rate %s). Holding: %s. Balance: $%s. Ref: %s\n",
			resp.Data.Amount, resp.Data.From, resp.Data.Converted, resp.Data.Rate,
			resp.Data.Holding, resp.Data.Balance, resp.Data.Reference)
	default:
		fmt.Fprintln(m.out, "Invalid choice, try again.")
	}
}

func (m *Menu) marketPrices(ctx context.Context) {
	prices, err := m.market.GetPrices(ctx)
	if err != nil {
		m.printErrors(prices.Message, prices.Errors)
		return
	}
	fmt.Fprintln(m.out, "Current market prices:")
	fmt.Fprintf(m.out, "  CRYPTO $%s\n", prices.Data.Crypto)
	fmt.Fprintf(m.out, "  GOLD   $%s\n", prices.Data.Gold)
	fmt.Fprintf(m.out, "  SILVER $%s\n", prices.Data.Silver)

	if !m.confirm("Refresh market prices? (y/n): ") {
		return
	}
	refreshed, err := m.market.RefreshPrices(ctx)
	if err != nil {
		m.printErrors(refreshed.Message, refreshed.Errors)
		return
	}
	fmt.Fprintln(m.out, "Refreshed market prices:")
	fmt.Fprintf(m.out, "  CRYPTO $%s (%s%%)\n", refreshed.Data.Prices.Crypto, refreshed.Data.Changes.Crypto)
	fmt.Fprintf(m.out, "  GOLD   $%s (%s%%)\n", refreshed.Data.Prices.Gold, refreshed.Data.Changes.Gold)
	fmt.Fprintf(m.out, "  SILVER $%s (%s%%)\n", refreshed.Data.Prices.Silver, refreshed.Data.Changes.Silver)
}

func (m *Menu) accountStatus(ctx context.Context) {
	resp, err := m.ledger.Valuation(ctx)
	if err != nil {
		m.printErrors(resp.Message, resp.Errors)
		return
	}
	data := resp.Data

	fmt.Fprintf(m.out, "Account statement for %s\n", data.AccountHolder)
	fmt.Fprintf(m.out, "  Balance:       $%s\n", data.Balance)
	fmt.Fprintf(m.out, "  Loan:          $%s\n", data.Loan)
	for _, asset := range data.Assets {
		fmt.Fprintf(m.out, "  %-6s %s units @ $%s = $%s\n",
			asset.Asset, asset.Units, asset.UnitPrice, asset.Value)
	}
	fmt.Fprintf(m.out, "  Assets total:  $%s\n", data.TotalAssetValue)
	for _, currency := range data.Currencies {
		fmt.Fprintf(m.out, "  %s %s @ %s = $%s\n",
			currency.Currency, currency.Units, currency.Rate, currency.Value)
	}
	fmt.Fprintf(m.out, "  Forex total:   $%s\n", data.TotalForexValue)
	fmt.Fprintf(m.out, "  Net worth:     $%s\n", data.NetWorth)
}

// promptLine reads one trimmed line. ok is false when input ran out.
func (m *Menu) promptLine(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptInt(prompt string) (int, bool) {
	for {
		line, ok := m.promptLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(m.out, "Please enter a number.")
			continue
		}
		return n, true
	}
}

func (m *Menu) promptDecimal(prompt string) (decimal.Decimal, bool) {
	for {
		line, ok := m.promptLine(prompt)
		if !ok {
			return decimal.Zero, false
		}
		amount, err := decimal.NewFromString(line)
		if err != nil {
			fmt.Fprintln(m.out, "Please enter an amount.")
			continue
		}
		return amount, true
	}
}

func (m *Menu) confirm(prompt string) bool {
	line, ok := m.promptLine(prompt)
	if !ok {
		return false
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes"
}

func (m *Menu) printErrors(message string, errs []string) {
	if len(errs) == 0 {
		fmt.Fprintf(m.out, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(m.out, "Error: %s (%s)\n", message, strings.Join(errs, "; "))
}
