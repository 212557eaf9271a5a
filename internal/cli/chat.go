package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bilalammar/library-management-system/agent"
	"github.com/bilalammar/library-management-system/internal/config"
	"github.com/bilalammar/library-management-system/internal/logger"
	"github.com/bilalammar/library-management-system/library"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the librarian assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForChat(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	audit, auditFile, err := logger.NewAudit(cfg.AuditLog)
	if err != nil {
		return err
	}
	defer auditFile.Close()
	audit = audit.With().Str("session_id", uuid.NewString()).Logger()

	store, err := library.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := library.SeedBooksCSV(store, cfg.SeedPath, log); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	// One scanner serves both the REPL and the in-conversation confirmation
	// prompts; a second buffered reader on stdin would swallow lines.
	scanner := bufio.NewScanner(os.Stdin)
	prompter := library.NewConsolePrompter(scanner)
	gate, err := library.NewAuthGate(cfg.SecretHash, prompter, log)
	if err != nil {
		return err
	}
	librarian := library.NewLibrarian(store, prompter, gate, log)
	dispatcher, err := agent.NewDispatcher(librarian, audit)
	if err != nil {
		return err
	}

	provider, err := agent.NewProvider(cfg.Provider, cfg.APIKey)
	if err != nil {
		return err
	}

	orch, err := agent.New(agent.Config{
		Provider:     provider,
		Dispatcher:   dispatcher,
		Model:        cfg.Model,
		SystemPrompt: agent.DefaultSystemPrompt,
		MaxRounds:    cfg.MaxRounds,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Print("\033[2J\033[H")
	fmt.Println("Library assistant ready. Type 'quit' or 'exit' to leave.")
	fmt.Println()

	for {
		fmt.Print("<<you>> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return nil
		}

		reply, err := orch.Respond(ctx, input)
		switch {
		case errors.Is(err, agent.ErrEmptyInput):
			continue
		case errors.Is(err, context.Canceled):
			// Interrupt during a completion call also wraps ErrCompletion,
			// so cancellation must win.
			fmt.Println("\nGoodbye!")
			return nil
		case errors.Is(err, agent.ErrCompletion):
			fmt.Printf("<<bot>> The model request failed: %v. Try again.\n\n", err)
			continue
		case err != nil:
			fmt.Printf("<<bot>> Something went wrong: %v\n\n", err)
			continue
		}

		fmt.Printf("<<bot>> %s\n\n", reply)
	}
	return scanner.Err()
}
