// Package swagger EV Map Service API.
//
// Сервис гео-запросов карты: зарядные станции, точки интереса и RV-места
// в радиусе от точки, плюс курируемая special-выборка ("показывать везде").
// Ответы в форме GeoJSON FeatureCollection с диагностическим meta-блоком.
//
// Основные возможности:
// - Радиусный поиск с пред-фильтром по рамке и точной haversine-проверкой
// - Фильтры по осям таксономии (провайдер, тип коннектора, тип POI, удобства)
// - Два режима payload: minimal для маркеров, full для детальной панели
// - TTL-кеширование с событийной инвалидацией special-выборки
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- application/geo+json
//
// swagger:meta
package swagger
