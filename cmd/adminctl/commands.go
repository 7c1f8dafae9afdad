package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tutorhub/console/internal/cli"
	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/pagination"
	"github.com/tutorhub/console/internal/session"
	authclient "github.com/tutorhub/console/services/auth/client"
	coinsclient "github.com/tutorhub/console/services/coins/client"
	dashboardclient "github.com/tutorhub/console/services/dashboard/client"
	discountsclient "github.com/tutorhub/console/services/discounts/client"
	pricingclient "github.com/tutorhub/console/services/pricing/client"
	teachersclient "github.com/tutorhub/console/services/teachers/client"
	transactionsclient "github.com/tutorhub/console/services/transactions/client"
	usersclient "github.com/tutorhub/console/services/users/client"
)

// =============================================================================
// Helpers
// =============================================================================

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out.Err)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// pending runs fn behind the in-flight indicator.
func pending[T any](a *app, label string, fn func() T) T {
	p := cli.NewPending(a.out.Err, label)
	p.Start()
	defer p.Stop()
	return fn()
}

// report prints a successful result, or returns its failure. A conflict prints
// the server's payload before failing.
func report[T any](a *app, res envelope.Result[T], table func(T) *cli.Table) error {
	if res.Success || res.Conflict() {
		var t *cli.Table
		if table != nil {
			t = table(res.Data)
		}
		if err := a.out.Print(res.Data, t); err != nil {
			return err
		}
	}
	return res.Err()
}

func subcommand(a *app, name string, args []string) (string, []string, error) {
	if len(args) == 0 {
		a.out.Error("usage: adminctl %s %s", name, strings.Join(cli.Commands[name], "|"))
		return "", nil, errUsage
	}
	return args[0], args[1:], nil
}

func unknown(a *app, name, sub string) error {
	a.out.Error("unknown %s subcommand %q", name, sub)
	return errUsage
}

func idArg(a *app, fs *flag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		a.out.Error("expected exactly one id")
		return 0, errUsage
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		a.out.Error("invalid id %q", fs.Arg(0))
		return 0, errUsage
	}
	return id, nil
}

func parseOptionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean", s)
	}
	return &b, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func pageFooter[T any](a *app, p pagination.Page[T]) {
	if a.out.Format == cli.FormatTable && a.out.JSONPath == "" {
		a.out.Info("page %d of %d, %d total", p.CurrentPage, p.TotalPages, p.TotalItems)
	}
}

// =============================================================================
// Session
// =============================================================================

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "operator email")
	password := fs.String("password", "", "password (prefer -password-stdin)")
	fromStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *fromStdin {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	var token string
	err := pending(a, "signing in", func() (err error) {
		token, err = a.console.Auth.Login(ctx, authclient.LoginRequest{Email: *email, Password: *password})
		return err
	})
	if err != nil {
		return err
	}

	if claims, perr := session.Peek(token); perr == nil && !claims.ExpiresAt.IsZero() {
		a.out.Success("signed in as %s until %s", *email, claims.ExpiresAt.Local().Format(time.RFC1123))
	} else {
		a.out.Success("signed in as %s", *email)
	}
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.console.Auth.Logout(ctx); err != nil {
		return err
	}
	a.out.Success("signed out")
	return nil
}

type whoami struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	Expired   bool      `json:"expired"`
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	fs := a.flags("whoami")
	remote := fs.Bool("remote", false, "ask the backend instead of reading the stored token")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	if *remote {
		res := pending(a, "loading profile", func() envelope.Result[authclient.Profile] { return a.console.Auth.Me(ctx) })
		return report(a, res, func(p authclient.Profile) *cli.Table {
			t := &cli.Table{Headers: []string{"id", "email", "name", "roles"}}
			t.Append(p.ID, p.Email, p.FullName, strings.Join(p.Roles, ","))
			return t
		})
	}

	token, err := a.console.Store.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		a.out.Warning("not signed in")
		return nil
	}
	claims, err := session.Peek(token)
	if err != nil {
		return err
	}
	w := whoami{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt,
		Expired:   claims.Expired(time.Now()),
	}
	t := &cli.Table{Headers: []string{"subject", "email", "roles", "expires", "expired"}}
	expires := "-"
	if !w.ExpiresAt.IsZero() {
		expires = w.ExpiresAt.Local().Format(time.RFC1123)
	}
	t.Append(w.Subject, w.Email, strings.Join(w.Roles, ","), expires, w.Expired)
	return a.out.Print(w, t)
}

// =============================================================================
// Users and roles
// =============================================================================

func userTable(users []usersclient.User) *cli.Table {
	t := &cli.Table{Headers: []string{"id", "name", "email", "role", "active", "created"}}
	for _, u := range users {
		t.Append(u.ID, u.FullName(), u.Email, u.RoleName, u.Active, u.CreatedAt.Display())
	}
	return t
}

func runUsers(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "users", args)
	if err != nil {
		return err
	}
	users := a.console.Users

	switch sub {
	case "list":
		fs := a.flags("users list")
		page := fs.Int("page", 1, "page number (1-based)")
		size := fs.Int("size", usersclient.DefaultPageSize, "page size")
		role := fs.String("role", "", "role name filter, e.g. ROLE_TUTOR")
		active := fs.String("active", "", "active status filter: true or false")
		search := fs.String("search", "", "name or email search term")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		status, err := parseOptionalBool(*active)
		if err != nil {
			a.out.Error("-active: %v", err)
			return errUsage
		}
		res := pending(a, "loading users", func() envelope.Result[pagination.Page[usersclient.User]] {
			return users.Search(ctx, *page, *size, usersclient.Filter{RoleName: *role, ActiveStatus: status, SearchTerm: *search})
		})
		if err := report(a, res, func(p pagination.Page[usersclient.User]) *cli.Table { return userTable(p.Items) }); err != nil {
			return err
		}
		pageFooter(a, res.Data)
		return nil

	case "create":
		fs := a.flags("users create")
		var req usersclient.CreateUserRequest
		fs.StringVar(&req.FirstName, "first", "", "first name")
		fs.StringVar(&req.LastName, "last", "", "last name")
		fs.StringVar(&req.Email, "email", "", "email")
		fs.StringVar(&req.Phone, "phone", "", "phone number")
		fs.StringVar(&req.Password, "password", "", "initial password")
		fs.StringVar(&req.ConfirmPassword, "confirm", "", "repeat the password")
		fs.StringVar(&req.RoleName, "role", "ROLE_STUDENT", "role name")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		user, err := users.Create(ctx, req)
		if err != nil {
			return err
		}
		a.out.Success("created user %d", user.ID)
		return a.out.Print(user, userTable([]usersclient.User{user}))

	case "enable", "disable", "delete":
		fs := a.flags("users " + sub)
		if err := a.parse(fs, args); err != nil {
			return err
		}
		id, err := idArg(a, fs)
		if err != nil {
			return err
		}
		op := map[string]func(context.Context, int64) error{
			"enable":  users.Enable,
			"disable": users.Disable,
			"delete":  users.Delete,
		}[sub]
		if err := op(ctx, id); err != nil {
			return err
		}
		a.out.Success("user %d %sd", id, sub)
		return nil

	case "assign-role":
		fs := a.flags("users assign-role")
		var req usersclient.AssignRoleRequest
		fs.Int64Var(&req.UserID, "user", 0, "user id")
		fs.Int64Var(&req.RoleID, "role", 0, "role id")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		if err := users.AssignRole(ctx, req).Err(); err != nil {
			return err
		}
		a.out.Success("assigned role %d to user %d", req.RoleID, req.UserID)
		return nil
	}
	return unknown(a, "users", sub)
}

func roleTable(roles []usersclient.Role) *cli.Table {
	t := &cli.Table{Headers: []string{"id", "name", "description"}}
	for _, r := range roles {
		t.Append(r.ID, r.Name, r.Description)
	}
	return t
}

func runRoles(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "roles", args)
	if err != nil {
		return err
	}
	users := a.console.Users
	fs := a.flags("roles " + sub)

	switch sub {
	case "list":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		roles, err := users.Roles(ctx)
		if err != nil {
			return err
		}
		return a.out.Print(roles, roleTable(roles))

	case "get", "delete":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		id, err := idArg(a, fs)
		if err != nil {
			return err
		}
		if sub == "delete" {
			if err := users.DeleteRole(ctx, id); err != nil {
				return err
			}
			a.out.Success("role %d deleted", id)
			return nil
		}
		role, err := users.Role(ctx, id)
		if err != nil {
			return err
		}
		return a.out.Print(role, roleTable([]usersclient.Role{role}))

	case "create":
		var req usersclient.CreateRoleRequest
		fs.StringVar(&req.Name, "name", "", "role name, e.g. ROLE_SUPPORT")
		fs.StringVar(&req.Description, "description", "", "description")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		role, err := users.CreateRole(ctx, req)
		if err != nil {
			return err
		}
		a.out.Success("created role %d", role.ID)
		return a.out.Print(role, roleTable([]usersclient.Role{role}))
	}
	return unknown(a, "roles", sub)
}

// =============================================================================
// Teachers and transactions
// =============================================================================

func runTeachers(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "teachers", args)
	if err != nil {
		return err
	}
	if sub != "list" {
		return unknown(a, "teachers", sub)
	}

	fs := a.flags("teachers list")
	page := fs.Int("page", 1, "page number (1-based)")
	size := fs.Int("size", teachersclient.DefaultPageSize, "page size")
	name := fs.String("name", "", "name substring")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	profiles, err := a.console.Teachers.SearchProfiles(ctx, *page, *size, *name)
	if err != nil {
		return err
	}
	t := &cli.Table{Headers: []string{"id", "name", "email", "subjects", "rate", "rating", "active"}}
	for _, p := range profiles.Items {
		t.Append(p.ID, p.FullName, p.Email, strings.Join(p.Subjects, ","), p.HourlyRate, p.Rating, p.Active)
	}
	if err := a.out.Print(profiles, t); err != nil {
		return err
	}
	pageFooter(a, profiles)
	return nil
}

func txTable(txs []transactionsclient.Transaction) *cli.Table {
	t := &cli.Table{Headers: []string{"id", "transaction", "user", "type", "status", "amount", "coins", "date"}}
	for _, tx := range txs {
		t.Append(tx.ID, tx.TransactionID, tx.UserID, tx.Type, tx.Status, tx.Amount, tx.Coins, tx.CreatedAt.Display())
	}
	return t
}

func runTransactions(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "tx", args)
	if err != nil {
		return err
	}
	txs := a.console.Transactions

	switch sub {
	case "list":
		fs := a.flags("tx list")
		page := fs.Int("page", 1, "page number (1-based)")
		size := fs.Int("size", transactionsclient.DefaultPageSize, "page size")
		from := fs.String("from", "", "start date YYYY-MM-DD")
		to := fs.String("to", "", "end date YYYY-MM-DD")
		var f transactionsclient.Filter
		fs.StringVar(&f.Status, "status", "", "status filter")
		fs.StringVar(&f.UserID, "user", "", "user id filter")
		fs.StringVar(&f.Type, "type", "", "type filter")
		fs.StringVar(&f.TransactionID, "id", "", "transaction id filter")
		fs.StringVar(&f.ExternalPaymentID, "external", "", "external payment id filter")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		if f.StartDate, err = parseDate(*from); err != nil {
			a.out.Error("-from: %v", err)
			return errUsage
		}
		if f.EndDate, err = parseDate(*to); err != nil {
			a.out.Error("-to: %v", err)
			return errUsage
		}
		res := pending(a, "loading transactions", func() envelope.Result[pagination.Page[transactionsclient.Transaction]] {
			return txs.Search(ctx, *page, *size, f)
		})
		if err := report(a, res, func(p pagination.Page[transactionsclient.Transaction]) *cli.Table { return txTable(p.Items) }); err != nil {
			return err
		}
		pageFooter(a, res.Data)
		return nil

	case "get":
		fs := a.flags("tx get")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			a.out.Error("usage: adminctl tx get <id>")
			return errUsage
		}
		res := txs.Get(ctx, fs.Arg(0))
		return report(a, res, func(tx transactionsclient.Transaction) *cli.Table {
			return txTable([]transactionsclient.Transaction{tx})
		})
	}
	return unknown(a, "tx", sub)
}

// =============================================================================
// Pricing, discounts and dashboard
// =============================================================================

func priceTable(p pricingclient.CoinPrice) *cli.Table {
	t := &cli.Table{Headers: []string{"id", "price", "currency", "active", "updated"}}
	t.Append(p.ID, p.Price, p.Currency, p.Active, p.UpdatedAt.Display())
	return t
}

func runPrice(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "price", args)
	if err != nil {
		return err
	}
	pricing := a.console.Pricing
	fs := a.flags("price " + sub)

	switch sub {
	case "get":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, pricing.Current(ctx), priceTable)

	case "add":
		var req pricingclient.PriceRequest
		fs.Float64Var(&req.Price, "price", 0, "price per coin")
		fs.StringVar(&req.Currency, "currency", "", "ISO currency code")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, pricing.Add(ctx, req), priceTable)

	case "update":
		price := fs.Float64("price", 0, "new price per coin")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		id, err := idArg(a, fs)
		if err != nil {
			return err
		}
		return report(a, pricing.Update(ctx, id, *price), priceTable)
	}
	return unknown(a, "price", sub)
}

func discountTable(ds []discountsclient.Discount) *cli.Table {
	t := &cli.Table{Headers: []string{"id", "min coins", "discount %", "state"}}
	for _, d := range ds {
		t.Append(d.ID, d.MinCoins, d.DiscountPercentage, d.State())
	}
	return t
}

func singleDiscount(d discountsclient.Discount) *cli.Table {
	return discountTable([]discountsclient.Discount{d})
}

func runDiscounts(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "discounts", args)
	if err != nil {
		return err
	}
	discounts := a.console.Discounts
	fs := a.flags("discounts " + sub)

	switch sub {
	case "list":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, discounts.ListActive(ctx), discountTable)

	case "add", "update":
		var req discountsclient.Request
		fs.Int64Var(&req.MinCoins, "min", 0, "minimum coins")
		fs.Float64Var(&req.DiscountPercentage, "percent", 0, "discount percentage")
		fs.BoolVar(&req.Active, "active", true, "active on creation")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		if sub == "add" {
			return report(a, discounts.Add(ctx, req), singleDiscount)
		}
		id, err := idArg(a, fs)
		if err != nil {
			return err
		}
		return report(a, discounts.Update(ctx, id, req), singleDiscount)

	case "activate", "deactivate":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		id, err := idArg(a, fs)
		if err != nil {
			return err
		}
		res := discounts.Activate
		if sub == "deactivate" {
			res = discounts.Deactivate
		}
		return report(a, res(ctx, id), singleDiscount)
	}
	return unknown(a, "discounts", sub)
}

type dashboardView struct {
	Totals dashboardclient.Totals         `json:"totals"`
	Stats  dashboardclient.RevenueStats   `json:"stats"`
	Chart  []dashboardclient.RevenuePoint `json:"chart"`
}

func loadDashboard(ctx context.Context, a *app, r dashboardclient.Range) (dashboardView, error) {
	var v dashboardView
	dash := a.console.Dashboard

	totals := dash.Totals(ctx)
	if err := totals.Err(); err != nil {
		return v, err
	}
	stats := dash.RevenueStats(ctx, r)
	if err := stats.Err(); err != nil {
		return v, err
	}
	chart := dash.RevenueChart(ctx, r)
	if err := chart.Err(); err != nil {
		return v, err
	}
	return dashboardView{Totals: totals.Data, Stats: stats.Data, Chart: chart.Data}, nil
}

func dashboardTable(v dashboardView) *cli.Table {
	t := &cli.Table{Headers: []string{"metric", "value"}}
	t.Append("users", v.Totals.TotalUsers)
	t.Append("teachers", v.Totals.TotalTeachers)
	t.Append("students", v.Totals.TotalStudents)
	t.Append("transactions", v.Totals.TotalTransactions)
	t.Append("coins sold", v.Totals.TotalCoinsSold)
	t.Append("revenue", fmt.Sprintf("%.2f", v.Totals.TotalRevenue))
	t.Append("revenue ("+string(v.Stats.Range)+")", fmt.Sprintf("%.2f", v.Stats.Revenue))
	t.Append("growth %", fmt.Sprintf("%.1f", v.Stats.GrowthPercentage))
	for _, p := range v.Chart {
		t.Append("  "+p.Label, fmt.Sprintf("%.2f", p.Revenue))
	}
	return t
}

func runDashboard(ctx context.Context, a *app, args []string) error {
	fs := a.flags("dashboard")
	rng := fs.String("range", string(dashboardclient.RangeMonth), "month, quarter or year")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	v, err := loadDashboard(ctx, a, dashboardclient.Range(*rng))
	if err != nil {
		return err
	}
	return a.out.Print(v, dashboardTable(v))
}

// =============================================================================
// Coins
// =============================================================================

func deductionTable(d coinsclient.Deduction) *cli.Table {
	t := &cli.Table{Headers: []string{"transaction", "deducted", "balance", "required", "message"}}
	t.Append(d.TransactionID, d.Deducted, d.Balance, d.Required, d.Message)
	return t
}

func runCoins(ctx context.Context, a *app, args []string) error {
	sub, args, err := subcommand(a, "coins", args)
	if err != nil {
		return err
	}
	coins := a.console.Coins
	fs := a.flags("coins " + sub)

	switch sub {
	case "balance":
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, coins.Balance(ctx), func(b coinsclient.Balance) *cli.Table {
			t := &cli.Table{Headers: []string{"user", "balance"}}
			t.Append(b.UserID, b.Balance)
			return t
		})

	case "buy":
		var req coinsclient.BuyRequest
		fs.Int64Var(&req.Coins, "coins", 0, "coins to buy")
		fs.StringVar(&req.PaymentMethod, "method", "", "payment method")
		fs.StringVar(&req.PaymentID, "payment-id", "", "external payment id")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, coins.Buy(ctx, req), func(p coinsclient.Purchase) *cli.Table {
			t := &cli.Table{Headers: []string{"transaction", "coins", "amount", "balance", "status"}}
			t.Append(p.TransactionID, p.Coins, p.Amount, p.Balance, p.Status)
			return t
		})

	case "deduct":
		var req coinsclient.DeductRequest
		fs.Int64Var(&req.Coins, "coins", 0, "coins to deduct")
		fs.StringVar(&req.Reason, "reason", "", "reason")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, coins.Deduct(ctx, req), deductionTable)

	case "deduct-for":
		var req coinsclient.DeductForClientRequest
		fs.StringVar(&req.ClientID, "client", "", "client id")
		fs.Int64Var(&req.Coins, "coins", 0, "coins to deduct")
		fs.StringVar(&req.Reason, "reason", "", "reason")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, coins.DeductForClient(ctx, req), deductionTable)

	case "price":
		n := fs.Int64("coins", 0, "number of coins")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		return report(a, coins.CalculatePrice(ctx, *n), func(q coinsclient.Quote) *cli.Table {
			t := &cli.Table{Headers: []string{"coins", "unit price", "discount %", "subtotal", "total"}}
			t.Append(q.Coins, q.UnitPrice, q.DiscountPercentage, q.Subtotal, q.Total)
			return t
		})

	case "history":
		page := fs.Int("page", 1, "page number (1-based)")
		size := fs.Int("size", coinsclient.DefaultPageSize, "page size")
		if err := a.parse(fs, args); err != nil {
			return err
		}
		res := coins.History(ctx, *page, *size)
		if err := report(a, res, func(p pagination.Page[coinsclient.CoinTransaction]) *cli.Table {
			t := &cli.Table{Headers: []string{"id", "type", "coins", "balance", "date"}}
			for _, tx := range p.Items {
				t.Append(tx.ID, tx.Type, tx.Coins, tx.Balance, tx.CreatedAt.Display())
			}
			return t
		}); err != nil {
			return err
		}
		pageFooter(a, res.Data)
		return nil
	}
	return unknown(a, "coins", sub)
}
