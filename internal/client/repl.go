package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/listkeeper/internal/models"
)

const helpText = `Available commands:
  signup                     create an account
  login                      log in and store the token
  logout                     forget the stored token
  whoami                     show your profile
  name <display name>        change your display name
  password                   change your password
  lists                      show your lists
  new <name>                 create a list
  show <list>                show a list with its items
  delete <list>              delete a list you own
  add <list> <description>   add an item
  done <list> <item>         mark an item finished
  edit <list> <item>         change an item's description
  rm <list> <item>           remove an item
  exit                       quit`

// Shell is the interactive command loop.
type Shell struct {
	api     *API
	session *Session
	prompt  *Prompter
	out     io.Writer
}

// NewShell creates a Shell reading commands and answers from in.
func NewShell(api *API, session *Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{api: api, session: session, prompt: NewPrompter(in, out), out: out}
}

// Run reads commands until exit, end of input or ctx is canceled.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.prompt.Line("listkeeper> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.Exec(ctx, args[0], args[1:]); err != nil {
			fmt.Fprintln(s.out, describe(err))
		}
	}
}

// Exec runs a single command.
func (s *Shell) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "signup":
		return s.signup(ctx)
	case "login":
		return s.login(ctx)
	case "logout":
		if err := s.session.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		u, err := s.api.GetUser(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s <%s> (%s)\n", u.Username, u.Email, u.DisplayName)
	case "name":
		if len(args) == 0 {
			return usage("name <display name>")
		}
		if err := s.api.UpdateDisplayName(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Display name updated")
	case "password":
		pw, err := s.prompt.Password("New password: ")
		if err != nil {
			return err
		}
		if err := s.api.UpdatePassword(ctx, pw); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Password changed")
	case "lists":
		lists, err := s.api.GetLists(ctx)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Fprintln(s.out, "No lists")
		}
		for _, l := range lists {
			fmt.Fprintf(s.out, "%d\t%s\t%s\n", l.ID, l.Name, l.DateCreated.Format("2006-01-02"))
		}
	case "new":
		if len(args) == 0 {
			return usage("new <name>")
		}
		desc, err := s.prompt.Line("Description (optional): ")
		if err != nil {
			return err
		}
		req := models.ListRequest{Name: strings.Join(args, " ")}
		if desc != "" {
			req.Description = &desc
		}
		l, err := s.api.CreateList(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Created list %d\n", l.ID)
	case "show":
		listID, err := ids(args, 1, "show <list>")
		if err != nil {
			return err
		}
		l, err := s.api.GetList(ctx, listID[0])
		if err != nil {
			return err
		}
		s.printList(l)
	case "delete":
		listID, err := ids(args, 1, "delete <list>")
		if err != nil {
			return err
		}
		if err := s.api.DeleteList(ctx, listID[0]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "List deleted")
	case "add":
		if len(args) < 2 {
			return usage("add <list> <description>")
		}
		listID, err := ids(args[:1], 1, "add <list> <description>")
		if err != nil {
			return err
		}
		it, err := s.api.AddItem(ctx, listID[0], models.ItemRequest{Description: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added item %d\n", it.ID)
	case "done", "edit":
		return s.updateItem(ctx, cmd, args)
	case "rm":
		pair, err := ids(args, 2, "rm <list> <item>")
		if err != nil {
			return err
		}
		if err := s.api.DeleteItem(ctx, pair[0], pair[1]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Item removed")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *Shell) signup(ctx context.Context) error {
	var req models.SignupRequest
	var err error
	if req.Username, err = s.prompt.Line("Username: "); err != nil {
		return err
	}
	if req.Email, err = s.prompt.Line("E-mail: "); err != nil {
		return err
	}
	if req.DisplayName, err = s.prompt.Line("Display name (optional): "); err != nil {
		return err
	}
	if req.Password, err = s.prompt.Password("Password: "); err != nil {
		return err
	}
	if err := s.api.Signup(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Signed up, now login")
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	login, err := s.prompt.Line("Username or e-mail: ")
	if err != nil {
		return err
	}
	pw, err := s.prompt.Password("Password: ")
	if err != nil {
		return err
	}
	if err := s.api.Login(ctx, login, pw); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Logged in")
	return nil
}

// updateItem fetches the current item so that "done" keeps the description
// and "edit" keeps the finished flag.
func (s *Shell) updateItem(ctx context.Context, cmd string, args []string) error {
	pair, err := ids(args, 2, cmd+" <list> <item>")
	if err != nil {
		return err
	}
	l, err := s.api.GetList(ctx, pair[0])
	if err != nil {
		return err
	}
	var current *models.Item
	for i := range l.Items {
		if l.Items[i].ID == pair[1] {
			current = &l.Items[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("item %d not found in list %d", pair[1], pair[0])
	}

	req := models.ItemRequest{Description: current.Description, Finished: current.Finished}
	if cmd == "done" {
		req.Finished = true
	} else {
		desc, err := s.prompt.Line("New description: ")
		if err != nil {
			return err
		}
		req.Description = desc
	}
	if err := s.api.UpdateItem(ctx, pair[0], pair[1], req); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Item updated")
	return nil
}

func (s *Shell) printList(l *models.ListWithItems) {
	fmt.Fprintf(s.out, "%s (created %s)\n", l.Name, l.DateCreated.Format("2006-01-02"))
	if l.Description != nil && *l.Description != "" {
		fmt.Fprintln(s.out, *l.Description)
	}
	for _, it := range l.Items {
		mark := " "
		if it.Finished {
			mark = "x"
		}
		fmt.Fprintf(s.out, "  [%s] %d %s\n", mark, it.ID, it.Description)
	}
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

// ids parses the first n args as positive ids.
func ids(args []string, n int, u string) ([]int64, error) {
	if len(args) < n {
		return nil, usage(u)
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		id, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", args[i])
		}
		out[i] = id
	}
	return out, nil
}

// describe turns an error into a line for the user.
func describe(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Message
	}
	return "Error: " + err.Error()
}
