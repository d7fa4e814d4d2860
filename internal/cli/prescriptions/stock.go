package prescriptions

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
)

// StockCmd sets the stock on hand, or adds a refill to it.
type StockCmd struct {
	ID     string `arg:"" help:"Prescription ID or unique prefix."`
	Set    *int   `help:"Set the stock to this count."`
	Refill bool   `help:"Add one refill (total per refill) to the current stock."`
}

func (c *StockCmd) Run(ctx *cli.Context) error {
	if (c.Set == nil) == !c.Refill {
		return apperrors.Validationf("stock", "specify exactly one of --set or --refill")
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	id, err := cli.ResolvePrescriptionID(ctx, svc, c.ID)
	if err != nil {
		return err
	}
	p, err := svc.GetPrescription(ctx.Context(), id)
	if err != nil {
		return err
	}

	newStock := p.CurrentStock + p.TotalPerRefill
	if c.Set != nil {
		newStock = *c.Set
	}
	if err := svc.UpdateStock(ctx.Context(), id, newStock); err != nil {
		return err
	}

	fmt.Printf("Stock for %s: %d -> %d\n", p.MedicationName, p.CurrentStock, newStock)
	return nil
}

// LowStockCmd lists prescriptions under the low-stock threshold.
type LowStockCmd struct{}

func (c *LowStockCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	low, err := svc.LowStock(ctx.Context())
	if err != nil {
		return err
	}

	if len(low) == 0 {
		fmt.Println("All prescriptions are sufficiently stocked.")
		return nil
	}
	for _, p := range low {
		fmt.Printf("⚠ %s (%s): %d left\n", p.MedicationName, cli.ShortID(p.ID), p.CurrentStock)
	}
	return nil
}
