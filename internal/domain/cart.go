package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// CartSlots is the number of item positions every cart carries.
const CartSlots = 300

var (
	// ErrInvalidSlot is returned for slot indexes outside [0, CartSlots).
	ErrInvalidSlot = errors.New("cart slot out of range")
	// ErrNegativeQuantity is returned when a stored or decoded slot is below zero.
	ErrNegativeQuantity = errors.New("cart quantity is negative")
)

// Cart maps a catalog item slot to the quantity held.
type Cart [CartSlots]int

// NewCart returns an empty cart with every slot set to zero.
func NewCart() Cart {
	return Cart{}
}

func validSlot(slot int) error {
	if slot < 0 || slot >= CartSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Add increments the quantity held in slot.
func (c *Cart) Add(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	c[slot]++
	return nil
}

// Remove decrements the quantity held in slot, never going below zero.
func (c *Cart) Remove(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if c[slot] > 0 {
		c[slot]--
	}
	return nil
}

// Quantity returns the quantity held in slot.
func (c Cart) Quantity(slot int) (int, error) {
	if err := validSlot(slot); err != nil {
		return 0, err
	}
	return c[slot], nil
}

// MarshalJSON encodes the cart as an object keyed "0".."299" in slot order.
func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(CartSlots * 8)
	buf.WriteByte('{')
	for i, qty := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(qty))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either the object form produced by MarshalJSON or a
// plain array of quantities. Slots absent from the input are left at zero.
func (c *Cart) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = Cart{}
		return nil
	}

	var out Cart
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var quantities []int
		if err := json.Unmarshal(trimmed, &quantities); err != nil {
			return fmt.Errorf("decode cart array: %w", err)
		}
		if len(quantities) > CartSlots {
			return fmt.Errorf("decode cart array: %d slots exceeds %d", len(quantities), CartSlots)
		}
		for slot, qty := range quantities {
			if err := ValidQuantity(slot, qty); err != nil {
				return fmt.Errorf("decode cart array: %w", err)
			}
			out[slot] = qty
		}
		*c = out
		return nil
	}

	var slots map[string]int
	if err := json.Unmarshal(trimmed, &slots); err != nil {
		return fmt.Errorf("decode cart object: %w", err)
	}
	for key, qty := range slots {
		slot, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("decode cart object: invalid slot %q", key)
		}
		if err := validSlot(slot); err != nil {
			return err
		}
		if err := ValidQuantity(slot, qty); err != nil {
			return fmt.Errorf("decode cart object: %w", err)
		}
		out[slot] = qty
	}
	*c = out
	return nil
}

// Slice returns the quantities as a slice, convenient for storage encoders.
func (c Cart) Slice() []int {
	out := make([]int, CartSlots)
	copy(out, c[:])
	return out
}

// CartFromSlice builds a cart from stored quantities.
func CartFromSlice(quantities []int) (Cart, error) {
	var c Cart
	if len(quantities) > CartSlots {
		return c, fmt.Errorf("cart has %d slots, want at most %d", len(quantities), CartSlots)
	}
	for slot, qty := range quantities {
		if err := ValidQuantity(slot, qty); err != nil {
			return Cart{}, err
		}
		c[slot] = qty
	}
	return c, nil
}

// ValidQuantity rejects negative quantities loaded into slot.
func ValidQuantity(slot, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: slot %d holds %d", ErrNegativeQuantity, slot, qty)
	}
	return nil
}
