// Package pipeline выполняет обработку одной задачи stemd.
//
// # Обзор
//
// Executor прогоняет задачу через упорядоченные стадии, каждая
// производит артефакт для следующей:
//
//  1. download — исходный файл из blob store в scratch
//  2. decode — транскодирование в эталонную волну (ffmpeg);
//     её частота и число frames — канон для выравнивания
//  3. separate — внешний инструмент разделения + flatten его выхода
//  4. align+encode — каждый stem ровно под эталонную длину,
//     затем FLAC с максимальным сжатием
//  5. metadata — документ _metadata.json (только при успехе)
//  6. upload — рекурсивная выгрузка выходного каталога
//
// Первая ошибка прерывает оставшиеся стадии. Каждой стадии
// соответствует свой вид ошибки (errors.go); классификация сбоя
// внешней программы делается на месте через общий хелпер runTool.
//
// # Модель выполнения
//
// Execute запускается в открепившейся горутине (см. internal/jobs)
// и не связан с оборотом запроса: автор задачи уже получил Ack.
// Scratch-каталог принадлежит задаче эксклюзивно и удаляется
// безусловно — успех или сбой.
package pipeline
