// Package main запускает консольный клиент системы билетов entradas.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/entradas-client/internal/api"
	"github.com/mmeshcher/entradas-client/internal/config"
	"github.com/mmeshcher/entradas-client/internal/model"
	"github.com/mmeshcher/entradas-client/internal/render"
	"github.com/mmeshcher/entradas-client/internal/service"
	"github.com/mmeshcher/entradas-client/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store, err := session.OpenStore(cfg.SessionPath)
	if err != nil {
		sugar.Fatalw("session store error", "error", err.Error())
	}
	defer store.Close()

	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	client := api.NewClient(cfg.APIBaseURL, timeout, api.TokenFunc(func() string {
		token, _ := store.Token()
		return token
	}))

	events := api.NewEventsAPI(client)
	users := api.NewUsersAPI(client)
	cart := api.NewCartAPI(client)
	tickets := api.NewTicketsAPI(client)

	manager := session.NewManager(store, users)
	renderer := render.NewRenderer(cfg.MediaBaseURL, timeout)
	svc := service.NewService(events, users, cart, tickets, manager, renderer, cfg.DownloadDir, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Восстановление сессии до выполнения команды
	if err := manager.AutoLogin(ctx); err != nil {
		sugar.Infow("session not restored", "error", err.Error())
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(ctx, svc, args); err != nil {
		sugar.Fatalw("command failed", "command", args[0], "error", err.Error())
	}
}

func run(ctx context.Context, svc *service.Service, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		user, err := svc.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("sesión iniciada: %s <%s>\n", user.Name, user.Email)

	case "register":
		if len(rest) < 3 {
			return fmt.Errorf("usage: register <nombre> <email> <password> [fechaNacimiento]")
		}
		u := model.User{Name: rest[0], Email: rest[1], Password: rest[2], Role: model.RoleClient}
		if len(rest) > 3 {
			birth, err := time.Parse("2006-01-02", rest[3])
			if err != nil {
				return fmt.Errorf("parse fechaNacimiento: %w", err)
			}
			u.BirthDate = birth
		}
		created, err := svc.Register(ctx, u)
		if err != nil {
			return err
		}
		fmt.Printf("usuario registrado: #%d %s\n", created.ID, created.Email)

	case "logout":
		if err := svc.Logout(); err != nil {
			return err
		}
		fmt.Println("sesión cerrada")

	case "whoami":
		user := svc.CurrentUser()
		if user == nil {
			fmt.Println("sin sesión")
			return nil
		}
		fmt.Printf("#%d %s <%s> rol=%s\n", user.ID, user.Name, user.Email, user.Role)

	case "events":
		var (
			list []model.Event
			err  error
		)
		if len(rest) > 0 {
			list, err = svc.SearchEvents(ctx, rest[0])
		} else {
			list, err = svc.Events(ctx)
		}
		if err != nil {
			return err
		}
		printEvents(list)

	case "event":
		id, err := parseID(rest, "event <id>")
		if err != nil {
			return err
		}
		ev, err := svc.Event(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n%s\n%s — %s\n%.2f EUR, aforo %d\n%s\n",
			ev.ID, ev.Name, ev.Location,
			ev.Starts.Format("02/01/2006 15:04"), ev.Ends.Format("02/01/2006 15:04"),
			ev.Price, ev.MaxCapacity, ev.Description)

	case "event-create":
		if len(rest) < 3 {
			return fmt.Errorf("usage: event-create <nombre> <localizacion> <precio> [aforoMax]")
		}
		precio, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return fmt.Errorf("parse precio: %w", err)
		}
		ev := model.Event{Name: rest[0], Location: rest[1], Price: precio}
		if len(rest) > 3 {
			aforo, err := strconv.Atoi(rest[3])
			if err != nil {
				return fmt.Errorf("parse aforoMax: %w", err)
			}
			ev.MaxCapacity = aforo
		}
		created, err := svc.CreateEvent(ctx, ev)
		if err != nil {
			return err
		}
		fmt.Printf("evento creado: #%d %s\n", created.ID, created.Name)

	case "event-update":
		if len(rest) != 3 {
			return fmt.Errorf("usage: event-update <id> <nombre> <precio>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parse id: %w", err)
		}
		precio, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return fmt.Errorf("parse precio: %w", err)
		}
		// обновление поверх свежего снимка, чтобы не затереть остальные поля
		ev, err := svc.Event(ctx, id)
		if err != nil {
			return err
		}
		ev.Name = rest[1]
		ev.Price = precio
		updated, err := svc.UpdateEvent(ctx, *ev)
		if err != nil {
			return err
		}
		fmt.Printf("evento actualizado: #%d %s %.2f EUR\n", updated.ID, updated.Name, updated.Price)

	case "event-delete":
		id, err := parseID(rest, "event-delete <id>")
		if err != nil {
			return err
		}
		if err := svc.DeleteEvent(ctx, id); err != nil {
			return err
		}
		fmt.Println("evento eliminado")

	case "cart":
		c, err := svc.Cart(ctx)
		if err != nil {
			return err
		}
		printCart(c)

	case "cart-add":
		if len(rest) != 2 {
			return fmt.Errorf("usage: cart-add <eventoID> <cantidad>")
		}
		eventID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parse eventoID: %w", err)
		}
		cantidad, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("parse cantidad: %w", err)
		}
		c, err := svc.AddToCart(ctx, eventID, cantidad)
		if err != nil {
			return err
		}
		printCart(c)

	case "cart-remove":
		itemID, err := parseID(rest, "cart-remove <itemID>")
		if err != nil {
			return err
		}
		c, err := svc.RemoveFromCart(ctx, itemID)
		if err != nil {
			return err
		}
		printCart(c)

	case "checkout":
		tickets, err := svc.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Println("compra finalizada")
		printTickets(tickets)

	case "tickets":
		tickets, err := svc.Tickets(ctx)
		if err != nil {
			return err
		}
		printTickets(tickets)

	case "ticket-pdf":
		id, err := parseID(rest, "ticket-pdf <ticketID>")
		if err != nil {
			return err
		}
		path, err := svc.DownloadTicketPDF(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("guardado en %s\n", path)

	case "ticket-email":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ticket-email <ticketID> <email>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parse ticketID: %w", err)
		}
		msg, err := svc.EmailTicketPDF(ctx, id, rest[1])
		if err != nil {
			return err
		}
		fmt.Println(msg)

	case "validate-qr":
		if len(rest) != 1 {
			return fmt.Errorf("usage: validate-qr <codigo>")
		}
		ok, err := svc.ValidateQR(ctx, rest[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Println("QR válido")
		} else {
			fmt.Println("QR no válido")
		}

	case "report":
		if len(rest) != 1 {
			return fmt.Errorf("usage: report <email>")
		}
		if err := svc.ReportUser(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("usuario reportado")

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

func parseID(rest []string, usageLine string) (int64, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("usage: %s", usageLine)
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id: %w", err)
	}
	return id, nil
}

func printEvents(events []model.Event) {
	if len(events) == 0 {
		fmt.Println("sin eventos")
		return
	}
	for _, ev := range events {
		fmt.Printf("#%d\t%s\t%s\t%.2f EUR\n", ev.ID, ev.Name, ev.Location, ev.Price)
	}
}

func printCart(c *model.Cart) {
	if c == nil || len(c.Items) == 0 {
		fmt.Println("carrito vacío")
		return
	}
	for _, it := range c.Items {
		fmt.Printf("#%d\t%s\t%d x %.2f EUR\n", it.ID, it.EventName, it.Quantity, it.UnitPrice)
	}
	fmt.Printf("total: %.2f EUR\n", c.Total())
}

func printTickets(tickets []model.Ticket) {
	if len(tickets) == 0 {
		fmt.Println("sin tickets")
		return
	}
	for _, t := range tickets {
		fmt.Printf("#%d\t%s\t%s\t%.2f EUR\t%s\n",
			t.ID, t.EventName, t.EventStarts.Format("02/01/2006 15:04"), t.PricePaid, t.State)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: entradas [flags] <command> [args]

commands:
  login <email> <password>
  register <nombre> <email> <password> [fechaNacimiento]
  logout | whoami
  events [busqueda] | event <id>
  event-create <nombre> <localizacion> <precio> [aforoMax]
  event-update <id> <nombre> <precio> | event-delete <id>
  cart | cart-add <eventoID> <cantidad> | cart-remove <itemID> | checkout
  tickets | ticket-pdf <ticketID> | ticket-email <ticketID> <email>
  validate-qr <codigo> | report <email>`)
}
