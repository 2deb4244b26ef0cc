package modal

import "errors"

var ErrUnknownItemType = errors.New("unknown item type")
