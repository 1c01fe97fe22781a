package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"school-advisor/internal/domain"
	"school-advisor/internal/riasec"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Print the survey items",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, item := range riasec.Items() {
			fmt.Fprintf(out, "%2d [%s] %s\n", item.ID, item.Category, item.Prompt)
		}
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:     "score",
	Short:   "Score an answer set and print the trait code",
	Example: `  advisor score --answers 1=5,2=4,8=5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("answers")
		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}
		if err := riasec.Validate(answers); err != nil {
			return err
		}
		scores := riasec.Score(answers)
		out := cmd.OutOrStdout()
		for _, c := range domain.TraitCategories {
			fmt.Fprintf(out, "%s %-13s %d\n", c, c.Name(), scores[c])
		}
		fmt.Fprintf(out, "code: %s\n", riasec.Rank(scores))
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("answers", "", "Comma separated id=value pairs")
	_ = scoreCmd.MarkFlagRequired("answers")
}

// parseAnswers lee "1=5,2=4". Ids repetidos se rechazan.
func parseAnswers(raw string) (domain.AnswerSet, error) {
	answers := domain.AnswerSet{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idRaw, valueRaw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q: expected id=value", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idRaw))
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q", idRaw)
		}
		value, err := strconv.Atoi(strings.TrimSpace(valueRaw))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for item %d", valueRaw, id)
		}
		if _, dup := answers[id]; dup {
			return nil, fmt.Errorf("item %d answered twice", id)
		}
		answers[id] = value
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers given")
	}
	return answers, nil
}
