package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data namespaces. Language codes and partner IDs ride along in the
// data string because callback queries carry no other state.
const (
	prefixSetLang      = "set_lang_"
	prefixInitialLang  = "initial_set_lang_"
	prefixCheckJoin    = "check_join_"
	prefixConfirmBlock = "confirm_block_"
	prefixCancelBlock  = "cancel_block_"
)

func confirmBlockData(partner int64, locale string) string {
	return fmt.Sprintf("%s%d_%s", prefixConfirmBlock, partner, locale)
}

// parseConfirmBlock extracts the partner ID and locale from
// "confirm_block_<id>_<lang>".
func parseConfirmBlock(data string) (partner int64, locale string, ok bool) {
	rest, found := strings.CutPrefix(data, prefixConfirmBlock)
	if !found {
		return 0, "", false
	}
	idStr, locale, found := strings.Cut(rest, "_")
	if !found {
		return 0, "", false
	}
	partner, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return partner, locale, true
}
