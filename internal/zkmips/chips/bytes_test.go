package chips

import "testing"

func TestBytesChipCoversEveryPair(t *testing.T) {
	var c BytesChip
	rows, err := c.GenerateRows(nil)
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	if len(rows) != byteChipHeight {
		t.Fatalf("got %d rows, want %d", len(rows), byteChipHeight)
	}
	for i, row := range rows {
		if got := row.Main[0].Uint32(); got != uint32(i>>8) {
			t.Fatalf("row %d: a = %d, want %d", i, got, i>>8)
		}
		if cs := c.EvalConstraints(row, row, nil); len(cs) != 2 || !cs[0].IsZero() || !cs[1].IsZero() {
			t.Fatalf("row %d: constraints not satisfied: %v", i, cs)
		}
	}
}

func TestBytesChipXORAgreesWithGo(t *testing.T) {
	var c BytesChip
	rows, _ := c.GenerateRows(nil)
	row := rows[(37<<8)|211]
	if got, want := row.Main[2].Uint32(), uint32(37^211); got != want {
		t.Fatalf("xor column = %d, want %d", got, want)
	}
	if got, want := row.Main[3].Uint32(), uint32(37&211); got != want {
		t.Fatalf("and column = %d, want %d", got, want)
	}
}
