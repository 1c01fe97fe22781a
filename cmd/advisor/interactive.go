package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"school-advisor/internal/domain"
	"school-advisor/internal/repository"
	"school-advisor/internal/service"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Answer the survey interactively and print the resulting code",
	Long: `Walks the 42 items one by one. Answer 1 (very unlikely) to 5 (very likely);
a blank line skips the item. With --user the assessment is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		var repo repository.AssessmentRepository
		if userID != "" {
			e, cleanup, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()
			repo = repository.NewPgAssessmentRepository(e.pool)
		}
		svc := service.NewAssessmentService(repo, nil)

		items := svc.Questions()
		answers := domain.AnswerSet{}
		for i, item := range items {
			prompt := fmt.Sprintf("[%d/%d] %s (1-5): ", i+1, len(items), item.Prompt)
			value, ok, err := readLikert(reader, out, prompt)
			if err != nil {
				return err
			}
			if ok {
				answers[item.ID] = value
			}
		}

		assessment, err := svc.Submit(cmd.Context(), userID, answers)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\ncode: %s\n", assessment.Code)
		return printJSON(out, assessment.Scores)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an advisor chat session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		e, cleanup, err := openEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer cleanup()

		messageRepo := repository.NewPgMessageRepository(e.pool)
		advisor := service.NewAdvisorService(
			e.llm,
			repository.NewPgSessionRepository(e.pool),
			messageRepo,
			repository.NewPgAssessmentRepository(e.pool),
			service.NewBasicContextService(messageRepo),
			e.timeout,
			e.logger,
		)

		session, err := advisor.StartSession(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "---- Advisor chat (type 'exit' to quit) ----")
		for {
			fmt.Fprint(out, "You > ")
			text, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return fmt.Errorf("read input: %w", err)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if strings.EqualFold(text, "exit") || strings.EqualFold(text, "salir") {
				return nil
			}

			reply, err := advisor.Chat(cmd.Context(), userID, session.ID, text)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Advisor > %s\n", reply.Content)
		}
	},
}

func init() {
	takeCmd.Flags().String("user", "", "Store the assessment for this user id")
	chatCmd.Flags().String("user", "", "User id owning the session")
	_ = chatCmd.MarkFlagRequired("user")
}

// readLikert pide un valor 1..5 hasta que sea valido. Linea vacia omite el item.
func readLikert(reader *bufio.Reader, out io.Writer, prompt string) (int, bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, false, fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return 0, false, nil
		}
		if value, convErr := strconv.Atoi(line); convErr == nil && value >= 1 && value <= 5 {
			return value, true, nil
		}
		fmt.Fprintln(out, "answer with a number from 1 to 5")
		if err == io.EOF {
			return 0, false, nil
		}
	}
}
