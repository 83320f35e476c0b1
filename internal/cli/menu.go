package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/core/service"
)

// app is the console front end: a numbered-menu loop over the three
// services. Input and output are injected so tests can script a session.
type app struct {
	prompter
	ctx       context.Context
	inventory *service.InventoryService
	orders    *service.OrderService
	shipments *service.ShipmentService
}

func newApp(ctx context.Context, in io.Reader, out io.Writer, inventory *service.InventoryService, orders *service.OrderService, shipments *service.ShipmentService) *app {
	return &app{
		prompter:  prompter{in: bufio.NewReader(in), out: out},
		ctx:       ctx,
		inventory: inventory,
		orders:    orders,
		shipments: shipments,
	}
}

// run drives the main menu until the user exits or stdin closes.
func (a *app) run() error {
	a.println("St Mary's Warehouse Management System")
	a.println("Date format: YYYY-MM-DD")

	for {
		a.println()
		a.println("Main Menu")
		a.println("1) Manage Inventory")
		a.println("2) Process Orders")
		a.println("3) Track Shipments")
		a.println("0) Exit")

		choice, err := a.promptInt("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.inventoryMenu()
		case 2:
			err = a.ordersMenu()
		case 3:
			err = a.shipmentsMenu()
		case 0:
			a.println("Goodbye.")
			return nil
		default:
			a.println("Invalid option.")
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// reportErr prints a service failure as its root cause and lets the menu
// continue.
func (a *app) reportErr(err error) {
	a.printf("Error: %s\n", domain.RootCause(err))
}

func (a *app) inventoryMenu() error {
	for {
		a.println()
		a.println("Inventory Menu")
		a.println("1) List all items")
		a.println("2) Search by ID")
		a.println("3) Search by name")
		a.println("4) Search by location")
		a.println("5) Add item")
		a.println("6) Update item")
		a.println("7) Delete item")
		a.println("8) Stock operations")
		a.println("9) Low stock report")
		a.println("0) Back")

		choice, err := a.promptInt("> ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			items, err := a.inventory.FindAll(a.ctx)
			if err != nil {
				a.reportErr(err)
				continue
			}
			a.printInventory(items)
		case 2:
			if err := a.inventorySearchByID(); err != nil {
				return err
			}
		case 3:
			name, err := a.readLine("Name contains: ")
			if err != nil {
				return err
			}
			items, svcErr := a.inventory.SearchByName(a.ctx, name)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printInventory(items)
		case 4:
			location, err := a.readLine("Location contains: ")
			if err != nil {
				return err
			}
			items, svcErr := a.inventory.SearchByLocation(a.ctx, location)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printInventory(items)
		case 5:
			if err := a.inventoryAdd(); err != nil {
				return err
			}
		case 6:
			if err := a.inventoryUpdate(); err != nil {
				return err
			}
		case 7:
			if err := a.inventoryDelete(); err != nil {
				return err
			}
		case 8:
			if err := a.inventoryStockMenu(); err != nil {
				return err
			}
		case 9:
			items, err := a.inventory.LowStockItems(a.ctx)
			if err != nil {
				a.reportErr(err)
				continue
			}
			a.printInventory(items)
		case 0:
			return nil
		default:
			a.println("Invalid option.")
		}
	}
}

func (a *app) inventorySearchByID() error {
	id, err := a.promptID("Item ID: ")
	if err != nil {
		return err
	}
	item, svcErr := a.inventory.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if item == nil {
		a.printf("No inventory item found with ID: %d\n", id)
		return nil
	}
	a.printInventory([]domain.Inventory{*item})
	return nil
}

func (a *app) inventoryAdd() error {
	name, err := a.promptText("Name: ")
	if err != nil {
		return err
	}
	quantity, err := a.promptInt("Quantity: ")
	if err != nil {
		return err
	}
	location, err := a.promptText("Location: ")
	if err != nil {
		return err
	}

	created, svcErr := a.inventory.Create(a.ctx, domain.Inventory{
		Name:     name,
		Quantity: quantity,
		Location: location,
	})
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	a.printf("Created item %d: %s\n", created.ID, created.Name)
	return nil
}

func (a *app) inventoryUpdate() error {
	id, err := a.promptID("Item ID: ")
	if err != nil {
		return err
	}
	existing, svcErr := a.inventory.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if existing == nil {
		a.printf("No inventory item found with ID: %d\n", id)
		return nil
	}

	a.println("Press Enter to keep current value.")
	name, err := a.promptTextDefault("Name", existing.Name)
	if err != nil {
		return err
	}
	quantity, err := a.promptIntDefault("Quantity", existing.Quantity)
	if err != nil {
		return err
	}
	location, err := a.promptTextDefault("Location", existing.Location)
	if err != nil {
		return err
	}

	updated := *existing
	updated.Name = name
	updated.Quantity = quantity
	updated.Location = location

	ok, svcErr := a.inventory.Update(a.ctx, updated)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.println("Nothing was updated.")
		return nil
	}
	a.println("Updated.")
	return nil
}

func (a *app) inventoryDelete() error {
	id, err := a.promptID("Item ID: ")
	if err != nil {
		return err
	}
	ok, svcErr := a.inventory.Delete(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.printf("No inventory item found with ID: %d\n", id)
		return nil
	}
	a.println("Deleted.")
	return nil
}

func (a *app) inventoryStockMenu() error {
	a.println("Stock actions:")
	a.println("1) Add stock")
	a.println("2) Remove stock")
	a.println("3) Set quantity")
	a.println("0) Back")

	choice, err := a.promptInt("> ")
	if err != nil {
		return err
	}
	if choice == 0 {
		return nil
	}
	if choice < 1 || choice > 3 {
		a.println("Invalid option.")
		return nil
	}

	id, err := a.promptID("Item ID: ")
	if err != nil {
		return err
	}
	quantity, err := a.promptInt("Quantity: ")
	if err != nil {
		return err
	}

	var (
		ok     bool
		svcErr error
	)
	switch choice {
	case 1:
		ok, svcErr = a.inventory.AddStock(a.ctx, id, quantity)
	case 2:
		ok, svcErr = a.inventory.RemoveStock(a.ctx, id, quantity)
	case 3:
		ok, svcErr = a.inventory.UpdateStock(a.ctx, id, quantity)
	}
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.printf("No inventory item found with ID: %d\n", id)
		return nil
	}
	a.println("Stock updated.")
	return nil
}

func (a *app) printInventory(items []domain.Inventory) {
	a.println()
	if len(items) == 0 {
		a.println("No inventory records.")
		return
	}
	a.printf("Inventory Records (%d)\n", len(items))
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	io.WriteString(w, "ID\tName\tQuantity\tLocation\n")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", item.ID, item.Name, item.Quantity, item.Location)
	}
	w.Flush()
}

func (a *app) ordersMenu() error {
	for {
		a.println()
		a.println("Orders Menu")
		a.println("1) List all orders")
		a.println("2) Search by ID")
		a.println("3) Search by customer name")
		a.println("4) Filter by status")
		a.println("5) Add order")
		a.println("6) Update order")
		a.println("7) Update status (workflow)")
		a.println("8) Delete order")
		a.println("0) Back")

		choice, err := a.promptInt("> ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			orders, err := a.orders.FindAll(a.ctx)
			if err != nil {
				a.reportErr(err)
				continue
			}
			a.printOrders(orders)
		case 2:
			if err := a.ordersSearchByID(); err != nil {
				return err
			}
		case 3:
			customer, err := a.readLine("Customer contains: ")
			if err != nil {
				return err
			}
			orders, svcErr := a.orders.SearchByCustomer(a.ctx, customer)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printOrders(orders)
		case 4:
			status, err := a.promptOrderStatus("Status: ")
			if err != nil {
				return err
			}
			orders, svcErr := a.orders.OrdersByStatus(a.ctx, status)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printOrders(orders)
		case 5:
			if err := a.ordersAdd(); err != nil {
				return err
			}
		case 6:
			if err := a.ordersUpdate(); err != nil {
				return err
			}
		case 7:
			if err := a.ordersWorkflow(); err != nil {
				return err
			}
		case 8:
			if err := a.ordersDelete(); err != nil {
				return err
			}
		case 0:
			return nil
		default:
			a.println("Invalid option.")
		}
	}
}

func (a *app) ordersSearchByID() error {
	id, err := a.promptID("Order ID: ")
	if err != nil {
		return err
	}
	order, svcErr := a.orders.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if order == nil {
		a.printf("No order found with ID: %d\n", id)
		return nil
	}
	a.printOrders([]domain.Order{*order})
	return nil
}

func (a *app) ordersAdd() error {
	customer, err := a.promptText("Customer name: ")
	if err != nil {
		return err
	}
	date, err := a.promptDate("Order date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	created, svcErr := a.orders.Create(a.ctx, domain.Order{
		Customer: customer,
		Date:     domain.DateOnly(date),
		Status:   domain.OrderStatusPending,
	})
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	a.printf("Created order %d for %s\n", created.ID, created.Customer)
	return nil
}

func (a *app) ordersUpdate() error {
	id, err := a.promptID("Order ID: ")
	if err != nil {
		return err
	}
	existing, svcErr := a.orders.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if existing == nil {
		a.printf("No order found with ID: %d\n", id)
		return nil
	}

	a.println("Press Enter to keep current value.")
	customer, err := a.promptTextDefault("Customer", existing.Customer)
	if err != nil {
		return err
	}
	date, err := a.promptDateDefault("Order date", existing.Date)
	if err != nil {
		return err
	}

	updated := *existing
	updated.Customer = customer
	updated.Date = domain.DateOnly(date)

	ok, svcErr := a.orders.Update(a.ctx, updated)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.println("Nothing was updated.")
		return nil
	}
	a.println("Updated.")
	return nil
}

func (a *app) ordersWorkflow() error {
	id, err := a.promptID("Order ID: ")
	if err != nil {
		return err
	}

	a.println("Workflow actions:")
	a.println("1) Confirm")
	a.println("2) Process")
	a.println("3) Ship")
	a.println("4) Deliver")
	a.println("5) Cancel")
	a.println("0) Back")

	choice, err := a.promptInt("> ")
	if err != nil {
		return err
	}

	var svcErr error
	switch choice {
	case 1:
		_, svcErr = a.orders.Confirm(a.ctx, id)
	case 2:
		_, svcErr = a.orders.Process(a.ctx, id)
	case 3:
		_, svcErr = a.orders.Ship(a.ctx, id)
	case 4:
		_, svcErr = a.orders.Deliver(a.ctx, id)
	case 5:
		_, svcErr = a.orders.Cancel(a.ctx, id)
	case 0:
		return nil
	default:
		a.println("Invalid option.")
		return nil
	}
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	a.println("Status updated.")
	return nil
}

func (a *app) ordersDelete() error {
	id, err := a.promptID("Order ID: ")
	if err != nil {
		return err
	}
	ok, svcErr := a.orders.Delete(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.printf("No order found with ID: %d\n", id)
		return nil
	}
	a.println("Deleted.")
	return nil
}

func (a *app) printOrders(orders []domain.Order) {
	a.println()
	if len(orders) == 0 {
		a.println("No order records.")
		return
	}
	a.printf("Order Records (%d)\n", len(orders))
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	io.WriteString(w, "ID\tDate\tCustomer\tStatus\n")
	for _, order := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", order.ID, order.Date.Format(dateLayout), order.Customer, order.Status)
	}
	w.Flush()
}

func (a *app) shipmentsMenu() error {
	for {
		a.println()
		a.println("Shipments Menu")
		a.println("1) List all shipments")
		a.println("2) Search by ID")
		a.println("3) Search by destination")
		a.println("4) Filter by status")
		a.println("5) Add shipment")
		a.println("6) Update shipment")
		a.println("7) Update status (workflow)")
		a.println("8) Delete shipment")
		a.println("9) Delayed shipments")
		a.println("0) Back")

		choice, err := a.promptInt("> ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			shipments, err := a.shipments.FindAll(a.ctx)
			if err != nil {
				a.reportErr(err)
				continue
			}
			a.printShipments(shipments)
		case 2:
			if err := a.shipmentsSearchByID(); err != nil {
				return err
			}
		case 3:
			destination, err := a.readLine("Destination contains: ")
			if err != nil {
				return err
			}
			shipments, svcErr := a.shipments.SearchByDestination(a.ctx, destination)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printShipments(shipments)
		case 4:
			status, err := a.promptShipmentStatus("Status: ")
			if err != nil {
				return err
			}
			shipments, svcErr := a.shipments.ShipmentsByStatus(a.ctx, status)
			if svcErr != nil {
				a.reportErr(svcErr)
				continue
			}
			a.printShipments(shipments)
		case 5:
			if err := a.shipmentsAdd(); err != nil {
				return err
			}
		case 6:
			if err := a.shipmentsUpdate(); err != nil {
				return err
			}
		case 7:
			if err := a.shipmentsWorkflow(); err != nil {
				return err
			}
		case 8:
			if err := a.shipmentsDelete(); err != nil {
				return err
			}
		case 9:
			shipments, err := a.shipments.DelayedShipments(a.ctx)
			if err != nil {
				a.reportErr(err)
				continue
			}
			a.printShipments(shipments)
		case 0:
			return nil
		default:
			a.println("Invalid option.")
		}
	}
}

func (a *app) shipmentsSearchByID() error {
	id, err := a.promptID("Shipment ID: ")
	if err != nil {
		return err
	}
	shipment, svcErr := a.shipments.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if shipment == nil {
		a.printf("No shipment found with ID: %d\n", id)
		return nil
	}
	a.printShipments([]domain.Shipment{*shipment})
	return nil
}

func (a *app) shipmentsAdd() error {
	destination, err := a.promptText("Destination: ")
	if err != nil {
		return err
	}
	date, err := a.promptDate("Shipment date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	created, svcErr := a.shipments.Create(a.ctx, domain.Shipment{
		Destination: destination,
		Date:        domain.DateOnly(date),
		Status:      domain.ShipmentStatusPreparing,
	})
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	a.printf("Created shipment %d to %s\n", created.ID, created.Destination)
	return nil
}

func (a *app) shipmentsUpdate() error {
	id, err := a.promptID("Shipment ID: ")
	if err != nil {
		return err
	}
	existing, svcErr := a.shipments.FindByID(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if existing == nil {
		a.printf("No shipment found with ID: %d\n", id)
		return nil
	}

	a.println("Press Enter to keep current value.")
	destination, err := a.promptTextDefault("Destination", existing.Destination)
	if err != nil {
		return err
	}
	date, err := a.promptDateDefault("Shipment date", existing.Date)
	if err != nil {
		return err
	}

	updated := *existing
	updated.Destination = destination
	updated.Date = domain.DateOnly(date)

	ok, svcErr := a.shipments.Update(a.ctx, updated)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.println("Nothing was updated.")
		return nil
	}
	a.println("Updated.")
	return nil
}

func (a *app) shipmentsWorkflow() error {
	id, err := a.promptID("Shipment ID: ")
	if err != nil {
		return err
	}

	a.println("Workflow actions:")
	a.println("1) Ship (in transit)")
	a.println("2) Out for delivery")
	a.println("3) Deliver")
	a.println("4) Return")
	a.println("5) Cancel")
	a.println("0) Back")

	choice, err := a.promptInt("> ")
	if err != nil {
		return err
	}

	var svcErr error
	switch choice {
	case 1:
		_, svcErr = a.shipments.Ship(a.ctx, id)
	case 2:
		_, svcErr = a.shipments.OutForDelivery(a.ctx, id)
	case 3:
		_, svcErr = a.shipments.Deliver(a.ctx, id)
	case 4:
		_, svcErr = a.shipments.Return(a.ctx, id)
	case 5:
		_, svcErr = a.shipments.Cancel(a.ctx, id)
	case 0:
		return nil
	default:
		a.println("Invalid option.")
		return nil
	}
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	a.println("Status updated.")
	return nil
}

func (a *app) shipmentsDelete() error {
	id, err := a.promptID("Shipment ID: ")
	if err != nil {
		return err
	}
	ok, svcErr := a.shipments.Delete(a.ctx, id)
	if svcErr != nil {
		a.reportErr(svcErr)
		return nil
	}
	if !ok {
		a.printf("No shipment found with ID: %d\n", id)
		return nil
	}
	a.println("Deleted.")
	return nil
}

func (a *app) printShipments(shipments []domain.Shipment) {
	a.println()
	if len(shipments) == 0 {
		a.println("No shipment records.")
		return
	}
	a.printf("Shipment Records (%d)\n", len(shipments))
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	io.WriteString(w, "ID\tDestination\tDate\tStatus\n")
	for _, shipment := range shipments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", shipment.ID, shipment.Destination, shipment.Date.Format(dateLayout), shipment.Status)
	}
	w.Flush()
}
