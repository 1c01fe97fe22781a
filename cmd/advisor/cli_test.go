package main

import (
	"bufio"
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"school-advisor/internal/domain"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers(" 1=5, 8 = 4,,15=1 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := domain.AnswerSet{1: 5, 8: 4, 15: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected answers: %v", got)
	}

	for _, raw := range []string{"", "1", "a=5", "1=x", "1=5,1=4"} {
		if _, err := parseAnswers(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSplitTitles(t *testing.T) {
	got := splitTitles(" BS Nursing ; ;computer science;")
	want := []string{"BS Nursing", "computer science"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected titles: %#v", got)
	}
}

func TestScoreCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"score", "--answers", "22=5,23=5,29=4"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "code: SER") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestReadLikert(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("9\nx\n4\n\n"))
	var out bytes.Buffer

	value, ok, err := readLikert(reader, &out, "? ")
	if err != nil || !ok || value != 4 {
		t.Fatalf("expected 4, got value=%d ok=%v err=%v", value, ok, err)
	}
	if strings.Count(out.String(), "answer with a number") != 2 {
		t.Fatalf("expected two retry hints, got:\n%s", out.String())
	}

	_, ok, err = readLikert(reader, &out, "? ")
	if err != nil || ok {
		t.Fatalf("blank line should skip, ok=%v err=%v", ok, err)
	}

	_, ok, err = readLikert(reader, &out, "? ")
	if err != nil || ok {
		t.Fatalf("EOF should skip, ok=%v err=%v", ok, err)
	}
}

func TestTakeCommandAnonymous(t *testing.T) {
	var in strings.Builder
	for i := 1; i <= 42; i++ {
		switch {
		case i >= 8 && i <= 10:
			in.WriteString("5\n")
		case i == 36:
			in.WriteString("4\n")
		default:
			in.WriteString("\n")
		}
	}

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(in.String()))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"take"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "code: ICR") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestOpenEnvRequiresConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_API_KEY", "")

	e, closeFn, err := openEnv(context.Background(), false)
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v", err)
	}
	if e != nil || closeFn != nil {
		t.Fatalf("expected nothing to close on config failure")
	}
}
