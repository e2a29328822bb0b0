package cart

import (
	"sync"
	"testing"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/stretchr/testify/require"
)

func samosa() domain.CartItem {
	return domain.CartItem{ID: "samosa", Name: "Samosa", Price: 2.50}
}

func lassi() domain.CartItem {
	return domain.CartItem{ID: "lassi", Name: "Mango Lassi", Price: 4.00}
}

func TestAddNewItem(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())

	items := s.Items(1)
	require.Len(t, items, 1)
	require.Equal(t, "samosa", items[0].ID)
	require.Equal(t, int32(1), items[0].Quantity)
}

func TestAddSameItemBumpsQuantity(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())
	s.Add(1, samosa())
	s.Add(1, samosa())

	items := s.Items(1)
	require.Len(t, items, 1)
	require.Equal(t, int32(3), items[0].Quantity)
}

func TestRemoveDecrementsThenDrops(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())
	s.Add(1, samosa())
	s.Add(1, lassi())

	s.Remove(1, "samosa")

	items := s.Items(1)
	require.Len(t, items, 2)
	require.Equal(t, int32(1), items[0].Quantity)

	s.Remove(1, "samosa")

	items = s.Items(1)
	require.Len(t, items, 1)
	require.Equal(t, "lassi", items[0].ID)
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())

	s.Remove(1, "naan")
	s.Remove(2, "samosa")

	require.Len(t, s.Items(1), 1)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())
	s.Add(1, lassi())
	s.Add(2, samosa())

	s.Clear(1)

	require.Empty(t, s.Items(1))
	require.Len(t, s.Items(2), 1, "clearing one cart must not touch another")
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())

	items := s.Items(1)
	items[0].Quantity = 99

	require.Equal(t, int32(1), s.Items(1)[0].Quantity)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	s := NewStore()
	s.Add(1, samosa())
	s.Add(2, lassi())

	require.Equal(t, "samosa", s.Items(1)[0].ID)
	require.Equal(t, "lassi", s.Items(2)[0].ID)
}

func TestSubscribeSignalsOnMutation(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe(1)

	s.Add(1, samosa())

	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after Add")
	}

	s.Clear(1)

	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after Clear")
	}
}

func TestConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(1, samosa())
		}()
	}
	wg.Wait()

	items := s.Items(1)
	require.Len(t, items, 1)
	require.Equal(t, int32(50), items[0].Quantity)
}
