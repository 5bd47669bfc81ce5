package packet

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is the primitive kind expected at one position of a message.
type Field byte

const (
	Number Field = 'n'
	Text   Field = 's'
)

// Schema maps each fixed-arity inbound type to its argument signature.
// Variadic lists the one type whose arguments are an open, non-empty list
// of numbers.
type Schema struct {
	Fixed    map[Type][]Field
	Variadic Type
}

// ClientSchema is the signature table of every client-to-server message.
var ClientSchema = Schema{
	Fixed: map[Type][]Field{
		TypeHello:    {Text, Number, Number},
		TypeMove:     {Number, Number},
		TypeLootMove: {Number, Number, Number},
		TypeAggro:    {Number},
		TypeAttack:   {Number},
		TypeHit:      {Number},
		TypeHurt:     {Number},
		TypeChat:     {Text},
		TypeLoot:     {Number},
		TypeTeleport: {Number, Number},
		TypeZone:     {},
		TypeOpen:     {Number},
		TypeCheck:    {Number},
	},
	Variadic: TypeWho,
}

// Check validates msg against the schema: the discriminant must be known,
// then each argument must match its position's primitive kind.
func Check(schema Schema, msg []any) bool {
	t, ok := TypeOf(msg)
	if !ok {
		return false
	}
	args := msg[1:]
	if fields, ok := schema.Fixed[t]; ok {
		if len(args) != len(fields) {
			return false
		}
		for i, f := range fields {
			if !matches(f, args[i]) {
				return false
			}
		}
		return true
	}
	if t == schema.Variadic {
		if len(args) == 0 {
			return false
		}
		for _, a := range args {
			if !matches(Number, a) {
				return false
			}
		}
		return true
	}
	return false
}

func matches(f Field, v any) bool {
	switch f {
	case Number:
		_, ok := v.(float64)
		return ok
	case Text:
		_, ok := v.(string)
		return ok
	}
	return false
}

// Render formats a message the way it appears in close reasons: its values
// joined by commas.
func Render(msg []any) string {
	parts := make([]string, len(msg))
	for i, v := range msg {
		switch x := v.(type) {
		case nil:
			parts[i] = ""
		case float64:
			parts[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case []any:
			parts[i] = Render(x)
		default:
			parts[i] = fmt.Sprint(x)
		}
	}
	return strings.Join(parts, ",")
}
