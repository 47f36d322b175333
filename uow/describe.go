package uow

import (
	"fmt"
	"reflect"
)

// describe returns the aggregate type and id used for outbox records.
func describe(aggregate Aggregate) (aggregateType string, aggregateID string) {
	if described, ok := aggregate.(Described); ok {
		return described.AggregateType(), described.AggregateID()
	}

	value := reflect.ValueOf(aggregate)
	aggregateType = reflect.Indirect(value).Type().Name()

	if method := value.MethodByName("ID"); method.IsValid() && method.Type().NumIn() == 0 && method.Type().NumOut() == 1 {
		aggregateID = fmt.Sprint(method.Call(nil)[0].Interface())
	}

	return aggregateType, aggregateID
}
