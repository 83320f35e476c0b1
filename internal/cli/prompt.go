package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
)

const dateLayout = "2006-01-02"

// prompter reads line-oriented input and re-prompts until it parses. All
// menu input funnels through here so every numeric, date and enum field
// behaves the same way.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// readLine returns the next trimmed line; io.EOF propagates so menus can
// exit when stdin closes.
func (p *prompter) readLine(label string) (string, error) {
	p.printf("%s", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptInt re-prompts until the input parses as an integer.
func (p *prompter) promptInt(label string) (int, error) {
	for {
		raw, err := p.readLine(label)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			p.println("Please enter a whole number.")
			continue
		}
		return n, nil
	}
}

func (p *prompter) promptID(label string) (int64, error) {
	for {
		n, err := p.promptInt(label)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			p.println("ID must be positive.")
			continue
		}
		return int64(n), nil
	}
}

// promptText re-prompts until a non-blank value is entered.
func (p *prompter) promptText(label string) (string, error) {
	for {
		raw, err := p.readLine(label)
		if err != nil {
			return "", err
		}
		if raw == "" {
			p.println("A value is required.")
			continue
		}
		return raw, nil
	}
}

// promptTextDefault keeps def when the input is blank, used by the update
// flows where Enter means "keep current value".
func (p *prompter) promptTextDefault(label, def string) (string, error) {
	raw, err := p.readLine(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if raw == "" {
		return def, nil
	}
	return raw, nil
}

func (p *prompter) promptDate(label string) (time.Time, error) {
	for {
		raw, err := p.readLine(label)
		if err != nil {
			return time.Time{}, err
		}
		t, convErr := time.Parse(dateLayout, raw)
		if convErr != nil {
			p.println("Please enter a date as YYYY-MM-DD.")
			continue
		}
		return t, nil
	}
}

func (p *prompter) promptDateDefault(label string, def time.Time) (time.Time, error) {
	for {
		raw, err := p.readLine(fmt.Sprintf("%s [%s]: ", label, def.Format(dateLayout)))
		if err != nil {
			return time.Time{}, err
		}
		if raw == "" {
			return def, nil
		}
		t, convErr := time.Parse(dateLayout, raw)
		if convErr != nil {
			p.println("Please enter a date as YYYY-MM-DD.")
			continue
		}
		return t, nil
	}
}

func (p *prompter) promptIntDefault(label string, def int) (int, error) {
	for {
		raw, err := p.readLine(fmt.Sprintf("%s [%d]: ", label, def))
		if err != nil {
			return 0, err
		}
		if raw == "" {
			return def, nil
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			p.println("Please enter a whole number.")
			continue
		}
		return n, nil
	}
}

func (p *prompter) promptOrderStatus(label string) (domain.OrderStatus, error) {
	for {
		raw, err := p.readLine(label)
		if err != nil {
			return "", err
		}
		status, parseErr := domain.ParseOrderStatus(raw)
		if parseErr != nil {
			p.printf("Unknown status. One of: %s\n", joinOrderStatuses())
			continue
		}
		return status, nil
	}
}

func (p *prompter) promptShipmentStatus(label string) (domain.ShipmentStatus, error) {
	for {
		raw, err := p.readLine(label)
		if err != nil {
			return "", err
		}
		status, parseErr := domain.ParseShipmentStatus(raw)
		if parseErr != nil {
			p.printf("Unknown status. One of: %s\n", joinShipmentStatuses())
			continue
		}
		return status, nil
	}
}

func joinOrderStatuses() string {
	parts := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinShipmentStatuses() string {
	parts := make([]string, len(domain.ShipmentStatuses))
	for i, s := range domain.ShipmentStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
