package gconf

import (
	"reflect"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x"
)

// OwnedConfig must have an Owner field in protobuf. A configuration update
// message must be signed by an owner in order to be authorized to apply the
// change.
type OwnedConfig interface {
	Configuration
	GetOwner() tokenescrow.Address
}

type UpdateConfigurationHandler struct {
	pkg string
	// We require this type to load the data.
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(tokenescrow.ReadOnlyKVStore) (tokenescrow.Address, error)
}

var _ tokenescrow.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// To pass authentication step, each message must be signed by the current
// configuration owner.
//
// When the configuration does not exist (it was not created via genesis) an
// optional initConfAdmin function can provide the address that is allowed to
// create it. Once a configuration exists, initConfAdmin is not used anymore.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(tokenescrow.ReadOnlyKVStore) (tokenescrow.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &tokenescrow.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	tokenescrow.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg)
	return &tokenescrow.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) error {
	// The handler is shared between transactions, never reuse a previously
	// loaded state.
	h.config.Reset()

	switch err := Load(store, h.pkg, h.config); {
	case err == nil:
		owner := h.config.GetOwner()
		if owner == nil {
			return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
		}
		if !h.auth.HasAddress(ctx, owner) {
			return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
		}
	case errors.ErrNotFound.Is(err):
		if h.initAdmin == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
		}
		admin, err := h.initAdmin(store)
		if err != nil {
			return errors.Wrap(err, "get init admin")
		}
		if !h.auth.HasAddress(ctx, admin) {
			return errors.Wrap(errors.ErrUnauthorized, "initialization admin signature required")
		}
	default:
		return errors.Wrap(err, "load current configuration")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(h.config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

func patch(config OwnedConfig, payload OwnedConfig) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType {
		return errors.Wrapf(errors.ErrMsg, "config in message %T doesn't match store %T", payload, config)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		// Unexported fields are protobuf internals.
		if cType.Elem().Field(i).PkgPath != "" {
			continue
		}
		got := pval.Field(i)
		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is extracted and
// returned.
func patchPayload(tx tokenescrow.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrInput, `%T has no "Patch" field`, msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
