// Package importer reads transaction snapshots from transactions.csv so
// the CLI can feed the engine without a persistence service.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,amount,currency,payment_amount,payment_currency,reimbursement,category,merchant,payment_method,reward_points"

const (
	numFields     = 11
	dateFormat    = "2006-01-02"
	colID         = 0
	colDate       = 1
	colAmount     = 2
	colCurrency   = 3
	colPayAmount  = 4
	colPayCur     = 5
	colReimbursed = 6
	colCategory   = 7
	colMerchant   = 8
	colMethod     = 9
	colPoints     = 10
)

// ReadTransactions reads all rows from a transactions.csv reader,
// preserving file order. Rows without an id get one assigned so every
// engine output can reference its transaction.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] { // skip header
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes the header plus one row per transaction.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row. Optional
// decimal fields serialize as empty, not "0", so a round-trip preserves
// unset-ness.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colDate] = tx.Date.Format(dateFormat)
	row[colAmount] = tx.Amount.String()
	row[colCurrency] = tx.Currency
	if !tx.PaymentAmount.IsZero() {
		row[colPayAmount] = tx.PaymentAmount.String()
	}
	row[colPayCur] = tx.PaymentCurrency
	if !tx.Reimbursement.IsZero() {
		row[colReimbursed] = tx.Reimbursement.String()
	}
	row[colCategory] = tx.Category
	row[colMerchant] = tx.Merchant
	row[colMethod] = tx.PaymentMethod
	if tx.RewardPoints != 0 {
		row[colPoints] = strconv.FormatInt(tx.RewardPoints, 10)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	payAmount, err := optionalDecimal(record[colPayAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing payment amount: %w", err)
	}
	reimbursed, err := optionalDecimal(record[colReimbursed])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing reimbursement: %w", err)
	}

	var points int64
	if record[colPoints] != "" {
		points, err = strconv.ParseInt(record[colPoints], 10, 64)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing reward points %q: %w", record[colPoints], err)
		}
	}

	return model.Transaction{
		ID:              record[colID],
		Date:            date,
		Amount:          amount,
		Currency:        record[colCurrency],
		PaymentAmount:   payAmount,
		PaymentCurrency: record[colPayCur],
		Reimbursement:   reimbursed,
		Category:        record[colCategory],
		Merchant:        record[colMerchant],
		PaymentMethod:   record[colMethod],
		RewardPoints:    points,
	}, nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, nil
	}
	return decimal.NewFromString(s)
}
