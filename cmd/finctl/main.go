package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/carson-networks/finance-server/internal/client"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
)

var errNotLoggedIn = errors.New("not logged in, run `finctl login` first")

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		logrus.WithError(err).Fatal("finctl")
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	app := &cli.App{
		Name:      "finctl",
		Usage:     "personal finance tracker client",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "finance-server base URL",
				Value:   "http://localhost:9446",
				EnvVars: []string{"FINCTL_SERVER"},
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "session file (default $HOME/.finctl/session.json)",
				EnvVars: []string{"FINCTL_SESSION"},
			},
		},
		Commands: []*cli.Command{
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			meCommand(),
			profileCommand(),
			transactionCommand(),
			summaryCommand(),
		},
	}
	return app.Run(args)
}

// -- wiring helpers --

func sessionStore(c *cli.Context) (*client.SessionStore, error) {
	path := c.String("session")
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return client.NewSessionStore(path), nil
}

func authedClient(c *cli.Context) (*client.Client, *client.Session, error) {
	store, err := sessionStore(c)
	if err != nil {
		return nil, nil, err
	}
	session, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, errNotLoggedIn
	}
	return client.New(c.String("server")).WithToken(session.Token), session, nil
}

func saveAuth(c *cli.Context, resp *client.AuthResponse) error {
	store, err := sessionStore(c)
	if err != nil {
		return err
	}
	user := resp.User
	return store.Save(client.Session{Token: resp.Token, User: &user})
}

func passwordFrom(c *cli.Context) (string, error) {
	if password := c.String("password"); password != "" {
		return password, nil
	}

	fmt.Fprint(c.App.Writer, "Password: ")
	password, err := readPassword(c.App.Reader)
	fmt.Fprintln(c.App.Writer)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func optionalDate(c *cli.Context, name string) (*apitypes.Date, error) {
	if !c.IsSet(name) {
		return nil, nil
	}
	date, err := apitypes.ParseDate(c.String(name))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &date, nil
}

func optionalString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	value := c.String(name)
	return &value
}

func printUser(w io.Writer, user client.User) {
	dob := "-"
	if user.Dob != nil {
		dob = user.Dob.String()
	}
	fmt.Fprintf(w, "Name:  %s\nEmail: %s\nDOB:   %s\nPhone: %s\n", user.Name, user.Email, dob, user.Phone)
}

func printTransactions(w io.Writer, transactions []client.Transaction) error {
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tNOTE")
	for _, tx := range transactions {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date.String(), tx.Type, tx.Category, tx.Amount.StringFixed(2), tx.Note)
	}
	return table.Flush()
}

func printTotals(w io.Writer, income, expense, net decimal.Decimal) {
	fmt.Fprintf(w, "Income: %s  Expense: %s  Net: %s\n", income.StringFixed(2), expense.StringFixed(2), net.StringFixed(2))
}

// -- commands --

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account and log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "prompted when omitted"},
			&cli.StringFlag{Name: "dob", Usage: "YYYY-MM-DD"},
			&cli.StringFlag{Name: "phone"},
		},
		Action: func(c *cli.Context) error {
			password, err := passwordFrom(c)
			if err != nil {
				return err
			}
			dob, err := optionalDate(c, "dob")
			if err != nil {
				return err
			}

			resp, err := client.New(c.String("server")).Signup(c.Context, client.SignupRequest{
				Name:     c.String("name"),
				Email:    c.String("email"),
				Password: password,
				Dob:      dob,
				Phone:    c.String("phone"),
			})
			if err != nil {
				return err
			}
			if err := saveAuth(c, resp); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Registered and logged in as %s\n", resp.User.Email)
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "prompted when omitted"},
		},
		Action: func(c *cli.Context) error {
			password, err := passwordFrom(c)
			if err != nil {
				return err
			}

			resp, err := client.New(c.String("server")).Login(c.Context, c.String("email"), password)
			if err != nil {
				return err
			}
			if err := saveAuth(c, resp); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Logged in as %s\n", resp.User.Email)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session",
		Action: func(c *cli.Context) error {
			store, err := sessionStore(c)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Logged out")
			return nil
		},
	}
}

func meCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "show the current profile",
		Action: func(c *cli.Context) error {
			api, _, err := authedClient(c)
			if err != nil {
				return err
			}
			user, err := api.Me(c.Context)
			if err != nil {
				return err
			}
			printUser(c.App.Writer, *user)
			return nil
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "manage the current profile",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "change only the given fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "dob", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "phone"},
				},
				Action: func(c *cli.Context) error {
					api, session, err := authedClient(c)
					if err != nil {
						return err
					}
					dob, err := optionalDate(c, "dob")
					if err != nil {
						return err
					}

					user, err := api.UpdateMe(c.Context, client.ProfileUpdate{
						Name:  optionalString(c, "name"),
						Dob:   dob,
						Phone: optionalString(c, "phone"),
					})
					if err != nil {
						return err
					}

					store, err := sessionStore(c)
					if err != nil {
						return err
					}
					session.User = user
					if err := store.Save(*session); err != nil {
						return err
					}

					printUser(c.App.Writer, *user)
					return nil
				},
			},
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "category", Usage: "exact category"},
		&cli.StringFlag{Name: "type", Usage: "income or expense"},
		&cli.StringFlag{Name: "from", Usage: "earliest date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "to", Usage: "latest date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "search", Usage: "substring of note or category"},
	}
}

func queryFrom(c *cli.Context) client.Query {
	return client.Query{
		Category: c.String("category"),
		Type:     c.String("type"),
		From:     c.String("from"),
		To:       c.String("to"),
		Search:   c.String("search"),
	}
}

func transactionCommand() *cli.Command {
	return &cli.Command{
		Name:    "tx",
		Aliases: []string{"transactions"},
		Usage:   "list and edit transactions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list transactions with totals",
				Flags: append(filterFlags(),
					&cli.StringFlag{Name: "show", Value: "all", Usage: "client side kind filter: all, income or expense"},
					&cli.StringFlag{Name: "match-category", Usage: "client side category substring"},
					&cli.StringFlag{Name: "match", Usage: "client side substring of note or category"},
				),
				Action: listTransactions,
			},
			{
				Name:  "add",
				Usage: "record a transaction",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "type", Required: true, Usage: "income or expense"},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
					&cli.StringFlag{Name: "note"},
				},
				Action: addTransaction,
			},
			{
				Name:      "edit",
				Usage:     "change fields of a transaction",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount"},
					&cli.StringFlag{Name: "type"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "date"},
					&cli.StringFlag{Name: "note"},
				},
				Action: editTransaction,
			},
			{
				Name:      "rm",
				Usage:     "delete a transaction",
				ArgsUsage: "<id>",
				Action:    removeTransaction,
			},
		},
	}
}

func listTransactions(c *cli.Context) error {
	api, _, err := authedClient(c)
	if err != nil {
		return err
	}

	transactions, err := api.ListTransactions(c.Context, queryFrom(c))
	if err != nil {
		return err
	}

	totals := client.ComputeTotals(transactions)
	visible := client.FilterTransactions(transactions, client.ViewFilter{
		Kind:     c.String("show"),
		Category: c.String("match-category"),
		Search:   c.String("match"),
	})

	printTotals(c.App.Writer, totals.Income, totals.Expense, totals.Net)
	if len(visible) == 0 {
		fmt.Fprintln(c.App.Writer, "No transactions")
		return nil
	}
	return printTransactions(c.App.Writer, visible)
}

func addTransaction(c *cli.Context) error {
	api, _, err := authedClient(c)
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(c.String("amount"))
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	date := apitypes.NewDate(time.Now())
	if parsed, err := optionalDate(c, "date"); err != nil {
		return err
	} else if parsed != nil {
		date = *parsed
	}

	created, err := api.CreateTransaction(c.Context, client.NewTransaction{
		Amount:   apitypes.NewAmount(amount),
		Type:     c.String("type"),
		Category: c.String("category"),
		Date:     date,
		Note:     c.String("note"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Created %s\n", created.ID)
	return nil
}

func editTransaction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("missing transaction id")
	}
	api, _, err := authedClient(c)
	if err != nil {
		return err
	}

	update := client.TransactionUpdate{
		Type:     optionalString(c, "type"),
		Category: optionalString(c, "category"),
		Note:     optionalString(c, "note"),
	}
	if c.IsSet("amount") {
		amount, err := decimal.NewFromString(c.String("amount"))
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}
		wrapped := apitypes.NewAmount(amount)
		update.Amount = &wrapped
	}
	if update.Date, err = optionalDate(c, "date"); err != nil {
		return err
	}

	updated, err := api.UpdateTransaction(c.Context, id, update)
	if err != nil {
		return err
	}
	return printTransactions(c.App.Writer, []client.Transaction{*updated})
}

func removeTransaction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("missing transaction id")
	}
	api, _, err := authedClient(c)
	if err != nil {
		return err
	}

	message, err := api.DeleteTransaction(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, message)
	return nil
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "server side totals for the filtered transactions",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			api, _, err := authedClient(c)
			if err != nil {
				return err
			}
			summary, err := api.Summary(c.Context, queryFrom(c))
			if err != nil {
				return err
			}
			printTotals(c.App.Writer, summary.Income.Decimal, summary.Expense.Decimal, summary.Net.Decimal)
			fmt.Fprintf(c.App.Writer, "Transactions: %d\n", summary.Count)
			return nil
		},
	}
}
