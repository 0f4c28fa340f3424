package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKey formats a global cell as "x,y".
func CellKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func ParseCellKey(id string) (x, y int, ok bool) {
	parts := strings.Split(id, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, err1 := strconv.Atoi(parts[0])
	y, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return x, y, true
}
